package engine

import (
	"sync"
	"time"

	"flightwatch/internal/clock"
	"flightwatch/internal/constants"
)

// PollScheduler tracks last-poll and next-poll times per entity id, in
// process memory only. State is rebuilt from nothing on restart: an
// entity with no record is always due. One instance per entity type
// (flights, rules); constructed once and passed by reference so tests
// can run independent schedulers with injected clocks.
type PollScheduler struct {
	mu       sync.Mutex
	clock    clock.Clock
	lastPoll map[string]time.Time
	nextPoll map[string]time.Time
}

func NewPollScheduler(c clock.Clock) *PollScheduler {
	if c == nil {
		c = clock.RealClock{}
	}
	return &PollScheduler{
		clock:    c,
		lastPoll: make(map[string]time.Time),
		nextPoll: make(map[string]time.Time),
	}
}

// Due filters ids down to the entities whose next-poll time has passed.
// Ids never seen before are due immediately.
func (s *PollScheduler) Due(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	due := make([]string, 0, len(ids))
	for _, id := range ids {
		next, ok := s.nextPoll[id]
		if !ok || !now.Before(next) {
			due = append(due, id)
		}
	}
	return due
}

// MarkPolled records that the entity was polled now
func (s *PollScheduler) MarkPolled(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPoll[id] = s.clock.Now()
}

// Reschedule sets the entity's next poll to now + interval
func (s *PollScheduler) Reschedule(id string, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPoll[id] = s.clock.Now().Add(interval)
}

// Remove drops the entity's schedule entries entirely, used when a
// flight reaches a terminal state.
func (s *PollScheduler) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastPoll, id)
	delete(s.nextPoll, id)
}

// GC purges entries whose last poll is older than the retention window,
// bounding memory for entities no longer actively tracked. Returns the
// number of purged entries.
func (s *PollScheduler) GC(retention time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-retention)
	purged := 0
	for id, last := range s.lastPoll {
		if last.Before(cutoff) {
			delete(s.lastPoll, id)
			delete(s.nextPoll, id)
			purged++
		}
	}
	return purged
}

// Len reports the number of scheduled entities
func (s *PollScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nextPoll)
}

// NextInterval derives the adaptive poll interval from flight status and
// proximity to departure. The step function is monotone: the closer to
// departure, the shorter the interval. When changes were detected this
// cycle the result is clamped so volatile periods re-poll quickly.
func NextInterval(status string, departure *time.Time, now time.Time, changed bool) time.Duration {
	var interval time.Duration

	switch {
	case constants.IsCancelledOrDiverted(status):
		interval = constants.PollIntervalCancelled
	case constants.IsAirborne(status):
		interval = constants.PollIntervalAirborne
	case departure == nil:
		interval = constants.PollIntervalOneDay
	default:
		hours := departure.Sub(now).Hours()
		switch {
		case hours > 48:
			interval = constants.PollIntervalFarOut
		case hours > 24:
			interval = constants.PollIntervalTwoDays
		case hours > 12:
			interval = constants.PollIntervalOneDay
		case hours > 4:
			interval = constants.PollIntervalSameDay
		case hours > 2:
			interval = constants.PollIntervalImminent
		default:
			interval = constants.PollIntervalAirborne
		}
	}

	if changed && interval > constants.PollIntervalChangedMax {
		interval = constants.PollIntervalChangedMax
	}
	return interval
}
