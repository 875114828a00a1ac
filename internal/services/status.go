package services

import (
	"fmt"
	"time"

	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	apperrors "github.com/pushp314/devconnect-contest-gateway/pkg/errors"
)

// ClassifyStatus derives a contest's status from its schedule and the current
// instant. The contest window is half-open: [startTime, startTime+duration).
// Pure function; callers own the re-evaluation tick.
func ClassifyStatus(startTime time.Time, durationMinutes int, now time.Time) (models.ContestStatus, error) {
	if startTime.IsZero() {
		return "", apperrors.DataError("contest has no start time")
	}
	if durationMinutes <= 0 {
		return "", apperrors.DataError(fmt.Sprintf("contest duration must be positive, got %d", durationMinutes))
	}

	endTime := startTime.Add(time.Duration(durationMinutes) * time.Minute)
	switch {
	case now.Before(startTime):
		return models.ContestStatusUpcoming, nil
	case now.Before(endTime):
		return models.ContestStatusLive, nil
	default:
		return models.ContestStatusEnded, nil
	}
}

// StatusTracker pins the status of one contest across repeated classifications.
// Clock skew between samples must never make an Ended contest flicker back to
// Live or Upcoming.
type StatusTracker struct {
	last    models.ContestStatus
	started bool
}

// Observe feeds one classification into the tracker and returns the effective
// status (the later of the sample and everything seen before).
func (t *StatusTracker) Observe(status models.ContestStatus) models.ContestStatus {
	if !t.started {
		t.last = status
		t.started = true
		return status
	}
	if status.Before(t.last) {
		return t.last
	}
	t.last = status
	return status
}

// ContestBuckets holds the list-view partition of a contest collection.
// All keeps every contest in upstream order; the three time buckets are
// filtered subsequences of it.
type ContestBuckets struct {
	All      []models.Contest `json:"all"`
	Live     []models.Contest `json:"live"`
	Upcoming []models.Contest `json:"upcoming"`
	Past     []models.Contest `json:"past"`
}

// BucketContests partitions contests for the list view using the same
// predicates as ClassifyStatus. Contests with malformed schedules stay in All
// but are excluded from the time buckets, since they cannot be classified.
func BucketContests(contests []models.Contest, now time.Time) ContestBuckets {
	buckets := ContestBuckets{
		All:      make([]models.Contest, 0, len(contests)),
		Live:     []models.Contest{},
		Upcoming: []models.Contest{},
		Past:     []models.Contest{},
	}

	for _, contest := range contests {
		buckets.All = append(buckets.All, contest)

		status, err := ClassifyStatus(contest.StartTime, contest.DurationMinutes, now)
		if err != nil {
			continue
		}
		switch status {
		case models.ContestStatusLive:
			buckets.Live = append(buckets.Live, contest)
		case models.ContestStatusUpcoming:
			buckets.Upcoming = append(buckets.Upcoming, contest)
		case models.ContestStatusEnded:
			buckets.Past = append(buckets.Past, contest)
		}
	}

	return buckets
}
