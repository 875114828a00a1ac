package services

import (
	"sort"
	"strings"

	"github.com/pushp314/devconnect-contest-gateway/internal/models"
)

// BuildLeaderboard ranks raw standings and projects each row against the
// canonical problem list.
//
// Sort key is score descending, nothing else: equal scores keep their arrival
// order (stable sort), and rank is the 1-based position in the sorted
// sequence, so tied entries get distinct consecutive ranks. Both choices
// mirror the upstream product behavior and are recorded as open questions in
// DESIGN.md rather than "fixed" here.
//
// An empty entries slice is a valid leaderboard with zero rows.
func BuildLeaderboard(problems []models.Problem, entries []models.RawEntry) []models.LeaderboardRow {
	ordered := make([]models.RawEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	rows := make([]models.LeaderboardRow, 0, len(ordered))
	for i, entry := range ordered {
		rows = append(rows, models.LeaderboardRow{
			Rank:     i + 1,
			User:     entry.User,
			Score:    entry.Score,
			Problems: ProjectProblemCells(problems, entry.ProblemStats),
		})
	}
	return rows
}

// Display-order sort columns. Anything unrecognized falls back to rank.
const (
	SortByRank     = "rank"
	SortByScore    = "score"
	SortByUsername = "username"
)

// SortRows re-orders ranked rows for display only. The Rank values computed by
// BuildLeaderboard are never touched; sorting by score descending therefore
// reproduces the canonical order, while other columns are ad-hoc views.
func SortRows(rows []models.LeaderboardRow, column string, desc bool) []models.LeaderboardRow {
	sorted := make([]models.LeaderboardRow, len(rows))
	copy(sorted, rows)

	less := func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank }
	switch column {
	case SortByScore:
		less = func(i, j int) bool { return sorted[i].Score < sorted[j].Score }
	case SortByUsername:
		less = func(i, j int) bool {
			return strings.ToLower(sorted[i].User.Username) < strings.ToLower(sorted[j].User.Username)
		}
	}

	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(sorted, less)
	return sorted
}
