package constants

import "time"

// Adaptive polling intervals. The closer a flight is to departure, the
// shorter the interval; airborne flights poll fastest.
const (
	PollIntervalFarOut    = 6 * time.Hour    // >48h before departure
	PollIntervalTwoDays   = 3 * time.Hour    // 24-48h
	PollIntervalOneDay    = 1 * time.Hour    // 12-24h
	PollIntervalSameDay   = 30 * time.Minute // 4-12h
	PollIntervalImminent  = 15 * time.Minute // 2-4h
	PollIntervalAirborne  = 5 * time.Minute  // <2h out or in the air
	PollIntervalCancelled = 1 * time.Hour    // cancelled/diverted

	// PollIntervalChangedMax clamps the interval when changes were
	// detected this cycle, so volatile periods are re-checked quickly.
	PollIntervalChangedMax = 15 * time.Minute

	// PollIntervalRetryNoData is the conservative retry when a provider
	// returned nothing for an identifier.
	PollIntervalRetryNoData = 1 * time.Hour

	// PollIntervalRetryPersist is the retry after a failed store write.
	PollIntervalRetryPersist = 30 * time.Minute

	// ScheduleRetention bounds in-memory schedule growth; entries not
	// polled within this window are purged each pass.
	ScheduleRetention = 7 * 24 * time.Hour
)
