package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"flightwatch/internal/clock"
	"flightwatch/internal/common"
	"flightwatch/internal/constants"
	"flightwatch/internal/db/repositories"
	"flightwatch/internal/logging"
	"flightwatch/internal/metrics"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"
	"flightwatch/internal/notify"
)

// ErrPassInProgress is returned when a pass is requested while another
// one is still running. Callers treat it as a no-op, not a failure.
var ErrPassInProgress = errors.New("engine pass already in progress")

// PassSummary reports what one engine pass did.
type PassSummary struct {
	StartedAt       time.Time `json:"started_at"`
	DurationMS      int64     `json:"duration_ms"`
	FlightsPolled   int       `json:"flights_polled"`
	FlightsMissing  int       `json:"flights_missing"`
	ChangesDetected int       `json:"changes_detected"`
	RulesEvaluated  int       `json:"rules_evaluated"`
	RulesFired      int       `json:"rules_fired"`
	Notifications   int       `json:"notifications"`
	SchedulePurged  int       `json:"schedule_purged"`
	Errors          int       `json:"errors"`
}

// Engine runs the adaptive polling and change-detection pass. It is
// designed to be invoked repeatedly by an external trigger; each pass is
// complete in itself and safe to re-run immediately, since the poll
// schedule prevents redundant provider calls. The mutex single-flights
// overlapping invocations.
type Engine struct {
	mu          sync.Mutex
	clock       clock.Clock
	fetcher     *BatchFetcher
	flightSched *PollScheduler
	ruleSched   *PollScheduler
	flightRepo  *repositories.TrackedFlightRepo
	alertRepo   *repositories.AlertRepo
	ruleRepo    *repositories.RuleRepo
	dispatcher  *notify.Dispatcher
	metrics     *metrics.MetricsRegistry
}

func NewEngine(
	c clock.Clock,
	fetcher *BatchFetcher,
	flightSched *PollScheduler,
	ruleSched *PollScheduler,
	flightRepo *repositories.TrackedFlightRepo,
	alertRepo *repositories.AlertRepo,
	ruleRepo *repositories.RuleRepo,
	dispatcher *notify.Dispatcher,
	m *metrics.MetricsRegistry,
) *Engine {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Engine{
		clock:       c,
		fetcher:     fetcher,
		flightSched: flightSched,
		ruleSched:   ruleSched,
		flightRepo:  flightRepo,
		alertRepo:   alertRepo,
		ruleRepo:    ruleRepo,
		dispatcher:  dispatcher,
		metrics:     m,
	}
}

// RunPass executes one complete polling cycle: select due entities,
// batch-fetch fresh state, detect changes, evaluate alerts and rules,
// dispatch notifications, reschedule.
func (e *Engine) RunPass(ctx context.Context) (*PassSummary, error) {
	if !e.mu.TryLock() {
		return nil, ErrPassInProgress
	}
	defer e.mu.Unlock()

	start := time.Now()
	now := e.clock.Now()
	summary := &PassSummary{StartedAt: now}

	log.Printf("[Engine] Starting pass at %s", now.Format(time.RFC3339))

	directAlerts, err := e.alertRepo.ListActiveDirect(ctx)
	if err != nil {
		e.countPass("error")
		return nil, err
	}

	rules, err := e.ruleRepo.ListActive(ctx)
	if err != nil {
		e.countPass("error")
		return nil, err
	}

	// Candidate selection: flights with active direct alerts, plus every
	// flight referenced by a due rule. Terminal flights are never
	// candidates again.
	pollSet := make(map[string]*gormModels.TrackedFlight)

	directFlightIDs := make([]string, 0, len(directAlerts))
	directFlights := make(map[string]*gormModels.TrackedFlight)
	for i := range directAlerts {
		flight := directAlerts[i].Flight
		if flight.ID == "" || constants.IsLanded(flight.Status) {
			continue
		}
		if _, seen := directFlights[flight.ID]; !seen {
			directFlights[flight.ID] = &directAlerts[i].Flight
			directFlightIDs = append(directFlightIDs, flight.ID)
		}
	}
	for _, id := range e.flightSched.Due(directFlightIDs) {
		pollSet[id] = directFlights[id]
	}

	ruleIDs := make([]string, 0, len(rules))
	rulesByID := make(map[string]*gormModels.Rule, len(rules))
	for i := range rules {
		ruleIDs = append(ruleIDs, rules[i].ID)
		rulesByID[rules[i].ID] = &rules[i]
	}
	dueRuleIDs := e.ruleSched.Due(ruleIDs)

	for _, ruleID := range dueRuleIDs {
		rule := rulesByID[ruleID]
		for i := range rule.Conditions {
			addRef(pollSet, &rule.Conditions[i].Flight)
		}
		for i := range rule.Alerts {
			addRef(pollSet, &rule.Alerts[i].Flight)
		}
	}

	// Fetch fresh state for every candidate in rate-limited batches
	idents := make([]string, 0, len(pollSet))
	for _, flight := range pollSet {
		idents = append(idents, flight.FlightNumber)
	}
	results := e.fetcher.BatchFetch(ctx, idents)

	changesByFlight := make(map[string][]models.ChangeEvent)
	intervalByFlight := make(map[string]time.Duration)
	var terminal []*gormModels.TrackedFlight

	for id, flight := range pollSet {
		e.flightSched.MarkPolled(id)
		summary.FlightsPolled++
		if e.metrics != nil {
			e.metrics.FlightsPolledTotal.Inc()
		}

		fresh, ok := results[NormalizeIdent(flight.FlightNumber)]
		if !ok {
			// No data this cycle; back off rather than hammering the provider
			summary.FlightsMissing++
			e.flightSched.Reschedule(id, constants.PollIntervalRetryNoData)
			logging.Warn("No provider data for flight",
				"flight_id", id,
				"flight_number", flight.FlightNumber,
			)
			continue
		}

		changes := DetectChanges(flight, fresh)
		summary.ChangesDetected += len(changes)
		if e.metrics != nil {
			for _, change := range changes {
				e.metrics.ChangesDetectedTotal.WithLabelValues(string(change.Type)).Inc()
			}
		}

		if err := common.WithRetry(ctx, common.DefaultRetry, func() error {
			return e.flightRepo.ApplyFreshState(ctx, id, fresh)
		}); err != nil {
			// A bad write must not wedge the schedule or abort the pass
			summary.Errors++
			e.flightSched.Reschedule(id, constants.PollIntervalRetryPersist)
			logging.Error("Failed to persist fresh flight state",
				"flight_id", id,
				"error", err.Error(),
			)
			continue
		}

		// Mirror the persisted update onto the in-memory struct;
		// condition predicates read these fields later in the pass.
		syncSnapshot(flight, fresh)

		changesByFlight[id] = changes

		if constants.IsLanded(fresh.Status) {
			terminal = append(terminal, flight)
			continue
		}

		departure := fresh.DepartureTime()
		if departure == nil {
			departure = flight.DepartureTime
		}
		interval := NextInterval(fresh.Status, departure, now, len(changes) > 0)
		intervalByFlight[id] = interval
		e.flightSched.Reschedule(id, interval)
	}

	// Direct alerts
	firing := EvaluateDirectAlerts(directAlerts, changesByFlight, pollSet)

	// Rules: failures are isolated per rule so one bad rule cannot stop
	// the rest of the pass
	for _, ruleID := range dueRuleIDs {
		rule := rulesByID[ruleID]
		summary.RulesEvaluated++

		ruleFiring, err := evaluateRuleSafe(*rule, changesByFlight, pollSet)
		if err != nil {
			summary.Errors++
			e.countRule("error")
			logging.Error("Rule evaluation failed",
				"rule_id", rule.ID,
				"error", err.Error(),
			)
		} else if len(ruleFiring) > 0 {
			summary.RulesFired++
			e.countRule("fired")
			firing = append(firing, ruleFiring...)
		} else {
			e.countRule("skipped")
		}

		e.ruleSched.MarkPolled(rule.ID)
		e.ruleSched.Reschedule(rule.ID, ruleInterval(rule, intervalByFlight))
	}

	// Dispatch: persistence failures count as errors, transport failures
	// are absorbed by the dispatcher
	for _, f := range firing {
		if err := e.dispatcher.Dispatch(ctx, f.Alert, f.Flight, f.Event, f.RuleID); err != nil {
			summary.Errors++
			logging.Error("Failed to dispatch notification",
				"alert_id", f.Alert.ID,
				"error", err.Error(),
			)
			continue
		}
		summary.Notifications++
	}

	// Concluded flights: drop schedule entries, then tell the user
	// tracking ended. The stored terminal status keeps them out of
	// future candidate sets, so this fires exactly once.
	for _, flight := range terminal {
		e.flightSched.Remove(flight.ID)
		if err := e.dispatcher.DispatchTrackingEnded(ctx, flight); err != nil {
			summary.Errors++
			logging.Error("Failed to dispatch tracking-ended notification",
				"flight_id", flight.ID,
				"error", err.Error(),
			)
			continue
		}
		summary.Notifications++
	}

	summary.SchedulePurged = e.flightSched.GC(constants.ScheduleRetention) +
		e.ruleSched.GC(constants.ScheduleRetention)

	summary.DurationMS = time.Since(start).Milliseconds()
	if e.metrics != nil {
		e.metrics.EnginePassDuration.Observe(time.Since(start).Seconds())
		e.metrics.ScheduleEntriesGauge.Set(float64(e.flightSched.Len() + e.ruleSched.Len()))
	}
	e.countPass("ok")

	log.Printf("[Engine] Completed pass in %s: %d flights, %d changes, %d notifications, %d errors",
		time.Since(start).Truncate(time.Millisecond),
		summary.FlightsPolled, summary.ChangesDetected, summary.Notifications, summary.Errors)

	return summary, nil
}

// RunScheduled invokes RunPass on a fixed interval until the context is
// cancelled, for deployments without an external cron trigger.
func (e *Engine) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.RunPass(ctx); err != nil && err != ErrPassInProgress {
				logging.Error("Scheduled engine pass failed", "error", err.Error())
			}
		}
	}
}

// evaluateRuleSafe converts a panic inside rule evaluation into a
// per-rule error.
func evaluateRuleSafe(rule gormModels.Rule, changesByFlight map[string][]models.ChangeEvent, flights map[string]*gormModels.TrackedFlight) (firing []FiringAlert, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("panic during rule evaluation")
		}
	}()
	return EvaluateRule(rule, changesByFlight, flights)
}

// ruleInterval derives a rule's next poll from its referenced flights:
// the most urgent flight wins.
func ruleInterval(rule *gormModels.Rule, intervalByFlight map[string]time.Duration) time.Duration {
	interval := constants.PollIntervalSameDay
	for _, cond := range rule.Conditions {
		if iv, ok := intervalByFlight[cond.FlightID]; ok && iv < interval {
			interval = iv
		}
	}
	for _, alert := range rule.Alerts {
		if iv, ok := intervalByFlight[alert.FlightID]; ok && iv < interval {
			interval = iv
		}
	}
	return interval
}

// syncSnapshot applies the same field updates to the in-memory flight
// that ApplyFreshState just wrote to the store.
func syncSnapshot(flight *gormModels.TrackedFlight, fresh *models.Flight) {
	if fresh.Status != "" {
		flight.Status = constants.NormalizeStatus(fresh.Status)
	}
	if fresh.Departure.Gate != "" {
		flight.Gate = fresh.Departure.Gate
	}
	if fresh.Departure.Terminal != "" {
		flight.Terminal = fresh.Departure.Terminal
	}
	if dep := fresh.DepartureTime(); dep != nil {
		flight.DepartureTime = dep
	}
	if arr := fresh.ArrivalTime(); arr != nil {
		flight.ArrivalTime = arr
	}
}

// addRef adds a preloaded rule-referenced flight to the poll set unless
// it is missing or already concluded.
func addRef(pollSet map[string]*gormModels.TrackedFlight, flight *gormModels.TrackedFlight) {
	if flight.ID == "" || constants.IsLanded(flight.Status) {
		return
	}
	if _, seen := pollSet[flight.ID]; !seen {
		pollSet[flight.ID] = flight
	}
}

func (e *Engine) countPass(outcome string) {
	if e.metrics != nil {
		e.metrics.EnginePassesTotal.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) countRule(outcome string) {
	if e.metrics != nil {
		e.metrics.RulesEvaluatedTotal.WithLabelValues(outcome).Inc()
	}
}
