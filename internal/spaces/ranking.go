package spaces

import (
	"sort"
	"strings"
)

// SortMode selects the listing order.
type SortMode string

const (
	SortTrending SortMode = "trending"
	SortLatest   SortMode = "latest"
	SortLikes    SortMode = "likes"
)

// ParseSortMode maps raw input to a SortMode, defaulting to trending for
// empty or unknown values.
func ParseSortMode(rawInput string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(rawInput))) {
	case SortLatest:
		return SortLatest
	case SortLikes:
		return SortLikes
	default:
		return SortTrending
	}
}

// CategoryAll is the sentinel category filter that matches every space.
const CategoryAll = "all"

// FilterSpaces returns the subsequence of views whose title or author
// username contains the search term case-insensitively, further restricted
// to the given category. An empty term matches everything, as do an empty
// category and the "all" sentinel. The input slice is not mutated.
func FilterSpaces(views []SpaceView, term, category string) []SpaceView {
	needle := strings.ToLower(strings.TrimSpace(term))
	wantCategory := strings.TrimSpace(category)
	matchAllCategories := wantCategory == "" || strings.EqualFold(wantCategory, CategoryAll)

	filtered := make([]SpaceView, 0, len(views))
	for _, view := range views {
		if !matchAllCategories && view.Category != wantCategory {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(view.Title), needle) &&
			!strings.Contains(strings.ToLower(view.AuthorUsername), needle) {
			continue
		}
		filtered = append(filtered, view)
	}
	return filtered
}

// SortSpaces returns a new slice ordered by the given mode. All orders are
// descending and stable, so ties keep their original relative order.
func SortSpaces(views []SpaceView, mode SortMode) []SpaceView {
	sorted := make([]SpaceView, len(views))
	copy(sorted, views)

	switch mode {
	case SortLatest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	case SortLikes:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Clicks > sorted[j].Clicks
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TrendingScore() > sorted[j].TrendingScore()
		})
	}
	return sorted
}
