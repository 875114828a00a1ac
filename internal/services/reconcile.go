package services

import (
	"github.com/pushp314/devconnect-contest-gateway/internal/models"
)

// statsIndex builds the lookup shared by the single-user merge and the
// leaderboard projection: problem id -> solve record. Records with a missing
// or unresolved problem reference are skipped; the viewer simply never
// attempted those. The canonical problem list, not this index, decides which
// rows exist and in what order.
func statsIndex(stats []models.ProblemStat) map[string]models.ProblemStat {
	index := make(map[string]models.ProblemStat, len(stats))
	for _, stat := range stats {
		if stat.Problem == nil || stat.Problem.ID == "" {
			continue
		}
		index[stat.Problem.ID] = stat
	}
	return index
}

// MergeProblemStats reconciles the contest's canonical problem list with a
// user's sparse solve records. The output always has exactly one entry per
// canonical problem, in canonical order, with IsSolved defaulting to false.
// Safe for nil/empty stats (unregistered viewers).
func MergeProblemStats(canonical []models.Problem, stats []models.ProblemStat) []models.DisplayProblem {
	index := statsIndex(stats)

	merged := make([]models.DisplayProblem, 0, len(canonical))
	for _, problem := range canonical {
		stat, attempted := index[problem.ID]
		merged = append(merged, models.DisplayProblem{
			Problem:  problem,
			IsSolved: attempted && stat.IsSolved,
		})
	}
	return merged
}

// ProjectProblemCells maps one leaderboard row's sparse stats onto the
// canonical problem list. Unattempted problems produce an empty cell
// (rendered as a dash), never a missing column.
func ProjectProblemCells(canonical []models.Problem, stats []models.ProblemStat) []models.ProblemCell {
	index := statsIndex(stats)

	cells := make([]models.ProblemCell, 0, len(canonical))
	for _, problem := range canonical {
		cell := models.ProblemCell{ProblemID: problem.ID}
		if stat, attempted := index[problem.ID]; attempted {
			cell.Attempted = true
			cell.IsSolved = stat.IsSolved
			cell.SolveTimeMillis = stat.SolveTimeMillis
		}
		cells = append(cells, cell)
	}
	return cells
}
