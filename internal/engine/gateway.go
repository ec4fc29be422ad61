package engine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"flightwatch/internal/common"
	"flightwatch/internal/constants"
	"flightwatch/internal/logging"
	"flightwatch/internal/metrics"
	"flightwatch/internal/models"
	"flightwatch/internal/providers"
)

// Gateway wraps the configured flight providers behind one interface.
// Providers are tried in order; the first one returning data wins. A nil
// result means "no fresh data this cycle", never a fatal condition.
type Gateway struct {
	providers []providers.FlightProvider
	cache     common.CacheInterface
	metrics   *metrics.MetricsRegistry
}

func NewGateway(cache common.CacheInterface, m *metrics.MetricsRegistry, provs ...providers.FlightProvider) *Gateway {
	return &Gateway{
		providers: provs,
		cache:     cache,
		metrics:   m,
	}
}

// NormalizeIdent canonicalizes a flight identifier for cache and result
// map keys ("ba 142" -> "BA142").
func NormalizeIdent(ident string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ident), " ", ""))
}

// FetchFlight returns the current canonical state for a flight
// identifier, serving from cache when a live entry exists.
func (g *Gateway) FetchFlight(ctx context.Context, ident string) *models.Flight {
	ident = NormalizeIdent(ident)
	if ident == "" {
		return nil
	}
	key := string(constants.CachePrefixFlight) + ident

	if g.cache != nil {
		if cached, found := g.cache.Get(key); found {
			if flight := decodeCachedFlight(cached); flight != nil {
				g.countCache(true)
				return flight
			}
		}
		g.countCache(false)
	}

	for _, p := range g.providers {
		start := time.Now()
		flight, err := p.FetchFlight(ctx, ident)
		g.observeFetch(p.GetProviderType(), start)

		if err != nil {
			logging.Warn("Provider fetch failed",
				"provider", p.GetProviderType(),
				"ident", ident,
				"error", err.Error(),
			)
			g.countFetch(p.GetProviderType(), "error")
			continue
		}
		if flight == nil {
			g.countFetch(p.GetProviderType(), "no_data")
			continue
		}

		g.countFetch(p.GetProviderType(), "ok")
		g.storeCached(key, flight)
		return flight
	}

	return nil
}

// storeCached writes the flight to cache with a status-dependent TTL.
// Values are stored as JSON strings so the Redis backend round-trips.
func (g *Gateway) storeCached(key string, flight *models.Flight) {
	if g.cache == nil {
		return
	}
	data, err := json.Marshal(flight)
	if err != nil {
		return
	}
	g.cache.Set(key, string(data), constants.FlightCacheTTL(flight.Status))
}

func decodeCachedFlight(cached interface{}) *models.Flight {
	data, ok := cached.(string)
	if !ok {
		// Unexpected cached shape; treat as a miss
		return nil
	}
	var flight models.Flight
	if err := json.Unmarshal([]byte(data), &flight); err != nil {
		return nil
	}
	return &flight
}

func (g *Gateway) countCache(hit bool) {
	if g.metrics == nil {
		return
	}
	if hit {
		g.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixFlight)).Inc()
	} else {
		g.metrics.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixFlight)).Inc()
	}
}

func (g *Gateway) countFetch(provider, outcome string) {
	if g.metrics == nil {
		return
	}
	g.metrics.ProviderFetchesTotal.WithLabelValues(provider, outcome).Inc()
}

func (g *Gateway) observeFetch(provider string, start time.Time) {
	if g.metrics == nil {
		return
	}
	g.metrics.ProviderFetchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
