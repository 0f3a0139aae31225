package spaces

import (
	"context"
	"testing"
	"time"
)

func TestAnalyticsSnapshotTotalsArePublicOnly(t *testing.T) {
	service, db := newTestService(t)
	author := seedUser(t, db, "user-1", "hexgrad")

	public := seedSpace(t, db, Space{ID: "space-public", Title: "Kokoro TTS", AuthorID: author.ID, Category: "Audio"})
	private := seedSpace(t, db, Space{ID: "space-private", Title: "Secret", AuthorID: author.ID, Category: "Text", Visibility: string(VisibilityPrivate)})
	seedClicks(t, db, public.ID, 3, testNow)
	seedClicks(t, db, private.ID, 9, testNow)

	snapshot, err := service.AnalyticsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.TotalSpaces != 1 {
		t.Fatalf("expected 1 public space, got %d", snapshot.TotalSpaces)
	}
	if snapshot.TotalClicks != 3 {
		t.Fatalf("expected clicks on public spaces only, got %d", snapshot.TotalClicks)
	}
}

func TestAnalyticsSnapshotGroupings(t *testing.T) {
	service, db := newTestService(t)
	author := seedUser(t, db, "user-1", "hexgrad")

	seedSpace(t, db, Space{ID: "s1", Title: "A", AuthorID: author.ID, Category: "Audio", Runtime: "ZENO"})
	seedSpace(t, db, Space{ID: "s2", Title: "B", AuthorID: author.ID, Category: "Audio", Runtime: "CUDA"})
	seedSpace(t, db, Space{ID: "s3", Title: "C", AuthorID: author.ID, Category: "Image", Runtime: "ZENO"})

	snapshot, err := service.AnalyticsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	categories := map[string]int64{}
	for _, bucket := range snapshot.SpacesByCategory {
		categories[bucket.Category] = bucket.Count
	}
	if categories["Audio"] != 2 || categories["Image"] != 1 {
		t.Fatalf("unexpected category grouping: %+v", snapshot.SpacesByCategory)
	}

	runtimes := map[string]int64{}
	for _, bucket := range snapshot.SpacesByRuntime {
		runtimes[bucket.Runtime] = bucket.Count
	}
	if runtimes["ZENO"] != 2 || runtimes["CUDA"] != 1 {
		t.Fatalf("unexpected runtime grouping: %+v", snapshot.SpacesByRuntime)
	}
}

func TestAnalyticsSnapshotTopSpaces(t *testing.T) {
	service, db := newTestService(t)
	author := seedUser(t, db, "user-1", "hexgrad")

	for i, clicks := range []int{1, 9, 4, 7, 2, 6, 3} {
		space := seedSpace(t, db, Space{
			ID:       "space-" + string(rune('a'+i)),
			Title:    "Space " + string(rune('A'+i)),
			AuthorID: author.ID,
		})
		seedClicks(t, db, space.ID, clicks, testNow)
	}

	snapshot, err := service.AnalyticsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.TopSpaces) != 5 {
		t.Fatalf("expected top 5, got %d", len(snapshot.TopSpaces))
	}
	if snapshot.TopSpaces[0].Clicks != 9 {
		t.Fatalf("expected the most clicked space first, got %d", snapshot.TopSpaces[0].Clicks)
	}
	for i := 1; i < len(snapshot.TopSpaces); i++ {
		if snapshot.TopSpaces[i].Clicks > snapshot.TopSpaces[i-1].Clicks {
			t.Fatalf("top spaces are not in descending click order: %+v", snapshot.TopSpaces)
		}
	}
	if snapshot.TopSpaces[0].Author != "hexgrad" {
		t.Fatalf("expected username resolution, got %q", snapshot.TopSpaces[0].Author)
	}
}

func TestAnalyticsSnapshotRecentActivity(t *testing.T) {
	service, db := newTestService(t)
	author := seedUser(t, db, "user-1", "hexgrad")
	space := seedSpace(t, db, Space{ID: "space-1", Title: "Kokoro TTS", AuthorID: author.ID})

	for i := 0; i < 12; i++ {
		seedClicks(t, db, space.ID, 1, testNow.Add(-time.Duration(i)*time.Minute))
	}

	snapshot, err := service.AnalyticsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.RecentActivity) != 10 {
		t.Fatalf("expected 10 recent events, got %d", len(snapshot.RecentActivity))
	}
	if snapshot.RecentActivity[0].SpaceTitle != "Kokoro TTS" {
		t.Fatalf("expected resolved space title, got %q", snapshot.RecentActivity[0].SpaceTitle)
	}
	for i := 1; i < len(snapshot.RecentActivity); i++ {
		if snapshot.RecentActivity[i].Timestamp.After(snapshot.RecentActivity[i-1].Timestamp) {
			t.Fatalf("recent activity is not newest-first")
		}
	}
}

func TestAnalyticsSnapshotDailySeriesCoversWindow(t *testing.T) {
	service, db := newTestService(t)
	author := seedUser(t, db, "user-1", "hexgrad")
	space := seedSpace(t, db, Space{ID: "space-1", Title: "Kokoro TTS", AuthorID: author.ID})

	seedClicks(t, db, space.ID, 2, testNow.AddDate(0, 0, -1))
	seedClicks(t, db, space.ID, 1, testNow)
	seedClicks(t, db, space.ID, 5, testNow.AddDate(0, 0, -20))

	snapshot, err := service.AnalyticsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals := map[string]int64{}
	var windowTotal int64
	for _, day := range snapshot.DailyClicks {
		totals[day.Date] = day.Count
		windowTotal += day.Count
	}
	if windowTotal != 3 {
		t.Fatalf("expected 3 clicks inside the window, got %d", windowTotal)
	}
	yesterday := testNow.AddDate(0, 0, -1).Format("2006-01-02")
	if totals[yesterday] != 2 {
		t.Fatalf("expected 2 clicks on %s, got %d", yesterday, totals[yesterday])
	}
}
