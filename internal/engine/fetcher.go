package engine

import (
	"context"
	"sync"
	"time"

	"flightwatch/internal/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BatchFetcher fetches a set of flight identifiers in fixed-size batches.
// Flights within a batch are fetched concurrently; a rate limiter spaces
// the batches out to respect provider rate limits. Identifiers that
// yielded no data are simply absent from the result map.
type BatchFetcher struct {
	gateway   *Gateway
	batchSize int
	limiter   *rate.Limiter
}

func NewBatchFetcher(gateway *Gateway, batchSize int, interBatchDelay time.Duration) *BatchFetcher {
	if batchSize < 1 {
		batchSize = 5
	}
	if interBatchDelay <= 0 {
		interBatchDelay = time.Second
	}
	return &BatchFetcher{
		gateway:   gateway,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(rate.Every(interBatchDelay), 1),
	}
}

// BatchFetch resolves current state for every identifier it can. Result
// keys are normalized identifiers.
func (f *BatchFetcher) BatchFetch(ctx context.Context, idents []string) map[string]*models.Flight {
	results := make(map[string]*models.Flight, len(idents))
	if len(idents) == 0 {
		return results
	}

	// De-duplicate so one flight shared by several entities costs one fetch
	seen := make(map[string]bool, len(idents))
	unique := make([]string, 0, len(idents))
	for _, ident := range idents {
		norm := NormalizeIdent(ident)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		unique = append(unique, norm)
	}

	var mu sync.Mutex
	for start := 0; start < len(unique); start += f.batchSize {
		if err := f.limiter.Wait(ctx); err != nil {
			break
		}

		end := start + f.batchSize
		if end > len(unique) {
			end = len(unique)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, ident := range unique[start:end] {
			ident := ident
			g.Go(func() error {
				if flight := f.gateway.FetchFlight(gctx, ident); flight != nil {
					mu.Lock()
					results[ident] = flight
					mu.Unlock()
				}
				return nil
			})
		}
		g.Wait()
	}

	return results
}
