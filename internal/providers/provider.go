package providers

import (
	"context"
	"fmt"

	"flightwatch/internal/models"
)

// FlightProvider is implemented by each external flight-data API. A nil
// flight with a nil error means the provider had no data for the
// identifier; callers treat that as "no fresh data this cycle".
type FlightProvider interface {
	// GetProviderType returns the provider type identifier
	GetProviderType() string

	// FetchFlight looks up current state for a flight identifier
	// (IATA flight number, e.g. "BA142") and normalizes it into the
	// canonical Flight shape.
	FetchFlight(ctx context.Context, ident string) (*models.Flight, error)
}

// ProviderError carries a classified provider failure
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
