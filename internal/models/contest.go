package models

import (
	"time"
)

type ContestStatus string

const (
	ContestStatusUpcoming ContestStatus = "UPCOMING"
	ContestStatusLive     ContestStatus = "LIVE"
	ContestStatusEnded    ContestStatus = "ENDED"
)

// statusOrder encodes the only legal progression. Used to reject regressions
// when a contest is re-classified on every tick.
var statusOrder = map[ContestStatus]int{
	ContestStatusUpcoming: 0,
	ContestStatusLive:     1,
	ContestStatusEnded:    2,
}

// Before reports whether s precedes other in the Upcoming -> Live -> Ended order.
func (s ContestStatus) Before(other ContestStatus) bool {
	return statusOrder[s] < statusOrder[other]
}

// Contest mirrors the upstream judge's contest record. The gateway never
// mutates it; status is always derived from the timestamps, not trusted from
// the wire.
type Contest struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"duration"`
	Problems        []Problem `json:"problems"`
	RegisteredUsers []string  `json:"registeredUsers"`
}

// EndTime derives the close of the contest window. Only meaningful when
// DurationMinutes > 0; schedule validation lives in the services package.
func (c Contest) EndTime() time.Time {
	return c.StartTime.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// RegisteredSet builds a membership set for O(1) lookups
func (c Contest) RegisteredSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.RegisteredUsers))
	for _, id := range c.RegisteredUsers {
		set[id] = struct{}{}
	}
	return set
}

type Problem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"` // easy, medium, hard
}

// ProblemStat is one sparse per-problem solve record. The upstream may omit
// problems the user never attempted and may send records whose problem
// reference failed to resolve (nil).
type ProblemStat struct {
	Problem         *Problem `json:"problem"`
	IsSolved        bool     `json:"isSolved"`
	SolveTimeMillis *int64   `json:"solveTime,omitempty"`
}

type UserContestStats struct {
	ProblemStats []ProblemStat `json:"problemStats"`
}

// DisplayProblem is a derived row: one canonical contest problem carrying the
// viewer's solved flag. Never persisted.
type DisplayProblem struct {
	Problem
	IsSolved bool `json:"isSolved"`
}
