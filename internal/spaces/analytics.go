package spaces

import (
	"context"
	"time"
)

// analyticsWindow is the trailing range for the per-day click series.
const analyticsWindow = 7 * 24 * time.Hour

const (
	topSpacesLimit      = 5
	recentActivityLimit = 10
)

// CategoryCount is one bucket of the per-category grouping.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// RuntimeCount is one bucket of the per-runtime grouping.
type RuntimeCount struct {
	Runtime string `json:"runtime"`
	Count   int64  `json:"count"`
}

// DailyClicks is the click total for one UTC day.
type DailyClicks struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// TopSpace is one entry of the click leaderboard.
type TopSpace struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Clicks int64  `json:"clicks"`
}

// Activity is one recent click event with its space resolved.
type Activity struct {
	ID         string    `json:"id"`
	SpaceTitle string    `json:"spaceTitle"`
	Author     string    `json:"author"`
	Timestamp  time.Time `json:"timestamp"`
}

// Analytics is the read-only platform snapshot. Every figure is restricted
// to public spaces.
type Analytics struct {
	TotalSpaces      int64           `json:"totalSpaces"`
	TotalClicks      int64           `json:"totalClicks"`
	SpacesByCategory []CategoryCount `json:"spacesByCategory"`
	SpacesByRuntime  []RuntimeCount  `json:"spacesByRuntime"`
	DailyClicks      []DailyClicks   `json:"dailyClicks"`
	TopSpaces        []TopSpace      `json:"topSpaces"`
	RecentActivity   []Activity      `json:"recentActivity"`
}

// AnalyticsSnapshot recomputes the full platform statistics. The persisted
// collections are small enough that recomputation per request beats keeping
// incremental aggregates consistent.
func (s *Service) AnalyticsSnapshot(ctx context.Context) (Analytics, error) {
	db := s.db.WithContext(ctx)
	snapshot := Analytics{}

	err := db.Model(&Space{}).
		Where("visibility = ?", string(VisibilityPublic)).
		Count(&snapshot.TotalSpaces).Error
	if err != nil {
		s.logError(opAnalytics, "space_count_failed", err)
		return Analytics{}, newServiceError(opAnalytics, "space_count_failed", err)
	}

	err = db.Model(&Click{}).
		Joins("JOIN spaces ON spaces.id = clicks.space_id").
		Where("spaces.visibility = ?", string(VisibilityPublic)).
		Count(&snapshot.TotalClicks).Error
	if err != nil {
		s.logError(opAnalytics, "click_count_failed", err)
		return Analytics{}, newServiceError(opAnalytics, "click_count_failed", err)
	}

	err = db.Model(&Space{}).
		Select("category, COUNT(*) AS count").
		Where("visibility = ?", string(VisibilityPublic)).
		Group("category").
		Order("category").
		Scan(&snapshot.SpacesByCategory).Error
	if err != nil {
		s.logError(opAnalytics, "category_group_failed", err)
		return Analytics{}, newServiceError(opAnalytics, "category_group_failed", err)
	}

	err = db.Model(&Space{}).
		Select("runtime, COUNT(*) AS count").
		Where("visibility = ?", string(VisibilityPublic)).
		Group("runtime").
		Order("runtime").
		Scan(&snapshot.SpacesByRuntime).Error
	if err != nil {
		s.logError(opAnalytics, "runtime_group_failed", err)
		return Analytics{}, newServiceError(opAnalytics, "runtime_group_failed", err)
	}

	daily, err := s.dailyClickSeries(ctx)
	if err != nil {
		s.logError(opAnalytics, "daily_series_failed", err)
		return Analytics{}, newServiceError(opAnalytics, "daily_series_failed", err)
	}
	snapshot.DailyClicks = daily

	type topSpaceRow struct {
		ID             string
		Title          string
		Clicks         int64
		AuthorUsername string
		AuthorName     string
	}
	var topRows []topSpaceRow
	err = db.Model(&Space{}).
		Select("spaces.id, spaces.title, COUNT(clicks.id) AS clicks, users.username AS author_username, users.name AS author_name").
		Joins("JOIN users ON users.id = spaces.author_id").
		Joins("LEFT JOIN clicks ON clicks.space_id = spaces.id").
		Where("spaces.visibility = ?", string(VisibilityPublic)).
		Group("spaces.id").
		Order("clicks DESC").
		Limit(topSpacesLimit).
		Scan(&topRows).Error
	if err != nil {
		s.logError(opAnalytics, "top_spaces_failed", err)
		return Analytics{}, newServiceError(opAnalytics, "top_spaces_failed", err)
	}
	snapshot.TopSpaces = make([]TopSpace, 0, len(topRows))
	for _, row := range topRows {
		snapshot.TopSpaces = append(snapshot.TopSpaces, TopSpace{
			ID:     row.ID,
			Title:  row.Title,
			Author: resolveAuthor(row.AuthorUsername, row.AuthorName),
			Clicks: row.Clicks,
		})
	}

	type activityRow struct {
		ID             string
		SpaceTitle     string
		AuthorUsername string
		AuthorName     string
		CreatedAt      time.Time
	}
	var activityRows []activityRow
	err = db.Model(&Click{}).
		Select("clicks.id, spaces.title AS space_title, users.username AS author_username, users.name AS author_name, clicks.created_at").
		Joins("JOIN spaces ON spaces.id = clicks.space_id").
		Joins("JOIN users ON users.id = spaces.author_id").
		Where("spaces.visibility = ?", string(VisibilityPublic)).
		Order("clicks.created_at DESC").
		Limit(recentActivityLimit).
		Scan(&activityRows).Error
	if err != nil {
		s.logError(opAnalytics, "recent_activity_failed", err)
		return Analytics{}, newServiceError(opAnalytics, "recent_activity_failed", err)
	}
	snapshot.RecentActivity = make([]Activity, 0, len(activityRows))
	for _, row := range activityRows {
		snapshot.RecentActivity = append(snapshot.RecentActivity, Activity{
			ID:         row.ID,
			SpaceTitle: row.SpaceTitle,
			Author:     resolveAuthor(row.AuthorUsername, row.AuthorName),
			Timestamp:  row.CreatedAt,
		})
	}

	return snapshot, nil
}

// dailyClickSeries buckets the trailing window's clicks by UTC day in the
// service rather than SQL, keeping day-boundary semantics independent of
// the store's datetime formatting.
func (s *Service) dailyClickSeries(ctx context.Context) ([]DailyClicks, error) {
	now := s.clock().UTC()
	since := now.Add(-analyticsWindow)

	type clickTime struct {
		CreatedAt time.Time
	}
	var rows []clickTime
	err := s.db.WithContext(ctx).Model(&Click{}).
		Select("clicks.created_at").
		Joins("JOIN spaces ON spaces.id = clicks.space_id").
		Where("clicks.created_at >= ? AND spaces.visibility = ?", since, string(VisibilityPublic)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, row := range rows {
		totals[row.CreatedAt.UTC().Format("2006-01-02")]++
	}

	series := make([]DailyClicks, 0, 8)
	for day := since.Truncate(24 * time.Hour); !day.After(now); day = day.Add(24 * time.Hour) {
		key := day.Format("2006-01-02")
		series = append(series, DailyClicks{Date: key, Count: totals[key]})
	}
	return series, nil
}

func resolveAuthor(username, name string) string {
	if username != "" {
		return username
	}
	return name
}
