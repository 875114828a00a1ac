package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/pushp314/devconnect-contest-gateway/internal/metrics"
)

const tickInterval = 1 * time.Second

// Remaining is a decomposed duration until a target instant, clamped at zero.
type Remaining struct {
	Days        int   `json:"days"`
	Hours       int   `json:"hours"`
	Minutes     int   `json:"minutes"`
	Seconds     int   `json:"seconds"`
	TotalMillis int64 `json:"totalMillis"`
}

// RemainingUntil decomposes max(0, target-now) by integer division, each unit
// taken modulo its parent.
func RemainingUntil(target, now time.Time) Remaining {
	ms := target.Sub(now).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Remaining{
		Days:        int(ms / 86400000),
		Hours:       int(ms % 86400000 / 3600000),
		Minutes:     int(ms % 3600000 / 60000),
		Seconds:     int(ms % 60000 / 1000),
		TotalMillis: ms,
	}
}

func (r Remaining) String() string {
	if r.Days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// CountdownHandle identifies one subscription. The zero handle is returned for
// subscriptions that expired at subscribe time; cancelling it is a no-op.
type CountdownHandle uint64

type countdownSub struct {
	target time.Time
	onTick func(Remaining)
	onEnd  func()
}

// CountdownScheduler multiplexes any number of countdown subscriptions onto a
// single 1-second driver instead of one timer per watcher. Each subscription
// gets a tick with the remaining time every period and its onEnd exactly once,
// on the first tick at or past the target.
type CountdownScheduler struct {
	clock Clock

	mu     sync.Mutex
	subs   map[CountdownHandle]*countdownSub
	nextID CountdownHandle

	stopOnce sync.Once
	stop     chan struct{}
}

func NewCountdownScheduler(clock Clock) *CountdownScheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &CountdownScheduler{
		clock: clock,
		subs:  make(map[CountdownHandle]*countdownSub),
		stop:  make(chan struct{}),
	}
}

// Start launches the driver goroutine. Tick remains callable directly, which
// is how the deterministic tests drive the scheduler.
func (s *CountdownScheduler) Start() {
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop tears down the driver. Idempotent; live subscriptions are dropped
// without firing onEnd.
func (s *CountdownScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Subscribe registers a countdown toward target. The first tick fires
// synchronously so subscribers render an initial remaining value without
// waiting a full period. If target is already past, onEnd fires immediately
// and nothing is scheduled.
func (s *CountdownScheduler) Subscribe(target time.Time, onTick func(Remaining), onEnd func()) CountdownHandle {
	now := s.clock.Now()
	if !target.After(now) {
		if onEnd != nil {
			onEnd()
		}
		return 0
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = &countdownSub{target: target, onTick: onTick, onEnd: onEnd}
	metrics.ActiveCountdowns.Set(float64(len(s.subs)))
	s.mu.Unlock()

	if onTick != nil {
		onTick(RemainingUntil(target, now))
	}
	return id
}

// Cancel removes a subscription. Safe to call more than once and after the
// countdown completed naturally.
func (s *CountdownScheduler) Cancel(h CountdownHandle) {
	s.mu.Lock()
	delete(s.subs, h)
	metrics.ActiveCountdowns.Set(float64(len(s.subs)))
	s.mu.Unlock()
}

// Active returns the number of live subscriptions
func (s *CountdownScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Tick evaluates every subscription against the current instant. Completed
// subscriptions are removed before their onEnd runs, so onEnd cannot fire
// twice even if callbacks re-enter the scheduler.
func (s *CountdownScheduler) Tick() {
	now := s.clock.Now()

	type firing struct {
		onTick    func(Remaining)
		onEnd     func()
		remaining Remaining
	}

	s.mu.Lock()
	fire := make([]firing, 0, len(s.subs))
	for id, sub := range s.subs {
		remaining := RemainingUntil(sub.target, now)
		if remaining.TotalMillis <= 0 {
			delete(s.subs, id)
			fire = append(fire, firing{onEnd: sub.onEnd})
			continue
		}
		fire = append(fire, firing{onTick: sub.onTick, remaining: remaining})
	}
	metrics.ActiveCountdowns.Set(float64(len(s.subs)))
	s.mu.Unlock()

	// Callbacks run outside the lock
	for _, f := range fire {
		if f.onEnd != nil {
			f.onEnd()
			continue
		}
		if f.onTick != nil {
			f.onTick(f.remaining)
		}
	}
}
