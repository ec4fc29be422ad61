package engine

import (
	"context"
	"testing"
	"time"

	"flightwatch/internal/models"
)

func TestBatchFetch_MissingFlightsOmitted(t *testing.T) {
	stub := &stubProvider{
		name: "stub",
		flights: map[string]*models.Flight{
			"BA142": {Ident: "BA142", Status: "scheduled"},
			"LH100": {Ident: "LH100", Status: "active"},
		},
	}
	fetcher := NewBatchFetcher(NewGateway(nil, nil, stub), 5, time.Millisecond)

	results := fetcher.BatchFetch(context.Background(), []string{"BA142", "XX999", "LH100"})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if _, ok := results["XX999"]; ok {
		t.Error("Identifier with no data must be absent from the result map")
	}
	if results["BA142"] == nil || results["LH100"] == nil {
		t.Error("Expected both known flights in the results")
	}
}

func TestBatchFetch_DeduplicatesIdents(t *testing.T) {
	stub := &stubProvider{
		name:    "stub",
		flights: map[string]*models.Flight{"BA142": {Ident: "BA142"}},
	}
	fetcher := NewBatchFetcher(NewGateway(nil, nil, stub), 5, time.Millisecond)

	results := fetcher.BatchFetch(context.Background(), []string{"BA142", "ba 142", "BA142"})

	if stub.calls != 1 {
		t.Errorf("Duplicate identifiers should cost one fetch, got %d", stub.calls)
	}
	if len(results) != 1 {
		t.Errorf("Expected one result, got %d", len(results))
	}
}

func TestBatchFetch_SplitsIntoBatches(t *testing.T) {
	stub := &stubProvider{
		name: "stub",
		flights: map[string]*models.Flight{
			"A1": {Ident: "A1"}, "A2": {Ident: "A2"}, "A3": {Ident: "A3"},
			"A4": {Ident: "A4"}, "A5": {Ident: "A5"},
		},
	}
	fetcher := NewBatchFetcher(NewGateway(nil, nil, stub), 2, time.Millisecond)

	results := fetcher.BatchFetch(context.Background(), []string{"A1", "A2", "A3", "A4", "A5"})

	if len(results) != 5 {
		t.Fatalf("Expected all 5 flights fetched across batches, got %d", len(results))
	}
}

func TestBatchFetch_EmptyInput(t *testing.T) {
	stub := &stubProvider{name: "stub"}
	fetcher := NewBatchFetcher(NewGateway(nil, nil, stub), 5, time.Millisecond)

	results := fetcher.BatchFetch(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("Expected empty results, got %d", len(results))
	}
	if stub.calls != 0 {
		t.Errorf("No identifiers should mean no provider calls, got %d", stub.calls)
	}
}

func TestBatchFetch_CancelledContext(t *testing.T) {
	stub := &stubProvider{
		name:    "stub",
		flights: map[string]*models.Flight{"BA142": {Ident: "BA142"}},
	}
	// Long inter-batch delay so the limiter wait is interrupted by the
	// already-cancelled context.
	fetcher := NewBatchFetcher(NewGateway(nil, nil, stub), 1, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := fetcher.BatchFetch(ctx, []string{"BA142"})
	if len(results) != 0 {
		t.Errorf("Cancelled context should stop fetching, got %d results", len(results))
	}
}
