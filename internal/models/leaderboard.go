package models

type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RawEntry is a leaderboard row as the upstream judge reports it. Rank is
// deliberately absent: it is derived here, never trusted from upstream.
type RawEntry struct {
	User         UserRef       `json:"user"`
	Score        float64       `json:"score"`
	ProblemStats []ProblemStat `json:"problemStats"`
}

// ProblemCell is the per-problem projection of one leaderboard row against the
// canonical problem list. Attempted=false renders as a dash.
type ProblemCell struct {
	ProblemID       string `json:"problemId"`
	Attempted       bool   `json:"attempted"`
	IsSolved        bool   `json:"isSolved"`
	SolveTimeMillis *int64 `json:"solveTime,omitempty"`
}

// LeaderboardRow is a ranked, projected row ready for display
type LeaderboardRow struct {
	Rank     int           `json:"rank"`
	User     UserRef       `json:"user"`
	Score    float64       `json:"score"`
	Problems []ProblemCell `json:"problems"`
}
