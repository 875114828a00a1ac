package services

import "time"

// Clock abstracts wall-clock reads so the time-driven pieces (status
// classification, countdowns) are deterministic under test. Production code
// uses SystemClock; tests inject a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var SystemClock Clock = systemClock{}
