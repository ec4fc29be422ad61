package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	"flightwatch/internal/models/dtos"
)

// AeroDataBoxProvider implements a provider for the AeroDataBox API,
// used as a fallback when aviationstack has no data.
type AeroDataBoxProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Ensure AeroDataBoxProvider implements FlightProvider
var _ FlightProvider = (*AeroDataBoxProvider)(nil)

// NewAeroDataBoxProvider creates a new AeroDataBox provider
func NewAeroDataBoxProvider(baseURL, apiKey string, timeout time.Duration) *AeroDataBoxProvider {
	return &AeroDataBoxProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *AeroDataBoxProvider) GetProviderType() string {
	return "aerodatabox"
}

// FetchFlight looks up a flight by number and normalizes the response
func (p *AeroDataBoxProvider) FetchFlight(ctx context.Context, ident string) (*models.Flight, error) {
	if ident == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Flight identifier cannot be empty",
		}
	}

	if p.APIKey == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "AERODATABOX_API_KEY is not set",
		}
	}

	endpoint := "/flights/number/" + url.PathEscape(ident)

	req, err := http.NewRequestWithContext(ctx, "GET", p.BaseURL+endpoint, nil)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("X-RapidAPI-Key", p.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := buildHTTPError(resp, endpoint); err != nil {
		return nil, err
	}

	var raw []dtos.AeroDataBoxFlight
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	if len(raw) == 0 {
		return nil, nil
	}

	return p.normalize(&raw[0]), nil
}

// normalize converts an AeroDataBox payload into the canonical Flight
func (p *AeroDataBoxProvider) normalize(raw *dtos.AeroDataBoxFlight) *models.Flight {
	// AeroDataBox flight numbers come as "BA 142"
	ident := strings.ReplaceAll(raw.Number, " ", "")

	flight := &models.Flight{
		Ident:        ident,
		FlightNumber: ident,
		IATA:         ident,
		Airline:      raw.Airline.Name,
		Status:       normalizeAeroDataBoxStatus(raw.Status),
		Departure:    normalizeMovement(&raw.Departure),
		Arrival:      normalizeMovement(&raw.Arrival),
		Provider:     p.GetProviderType(),
		FetchedAt:    time.Now().UTC(),
	}

	if raw.Aircraft != nil {
		flight.Aircraft = &models.Aircraft{
			Registration: raw.Aircraft.Registration,
		}
	}

	return flight
}

func normalizeMovement(raw *dtos.AeroDataBoxMovement) models.FlightEndpoint {
	ep := models.FlightEndpoint{
		Airport:  raw.Airport.Name,
		IATA:     raw.Airport.IATA,
		ICAO:     raw.Airport.ICAO,
		Terminal: raw.Terminal,
		Gate:     raw.Gate,
	}
	if raw.ScheduledTime != nil {
		ep.Scheduled = parseTimestamp(raw.ScheduledTime.UTC)
	}
	if raw.RevisedTime != nil {
		ep.Estimated = parseTimestamp(raw.RevisedTime.UTC)
	}
	if raw.RunwayTime != nil {
		ep.Actual = parseTimestamp(raw.RunwayTime.UTC)
	}

	if ep.Scheduled != nil && ep.Estimated != nil {
		delay := int(ep.Estimated.Sub(*ep.Scheduled).Minutes())
		ep.DelayMinutes = &delay
	}
	return ep
}

// normalizeAeroDataBoxStatus maps AeroDataBox status vocabulary onto the
// aviationstack-style vocabulary the rest of the engine expects.
func normalizeAeroDataBoxStatus(status string) string {
	switch constants.NormalizeStatus(status) {
	case "expected", "checkin", "boarding", "gateclosed":
		return constants.StatusScheduled
	case "departed", "enroute", "approaching":
		return constants.StatusActive
	case "arrived":
		return constants.StatusLanded
	case "canceled", "cancelled":
		return constants.StatusCancelled
	case "diverted":
		return constants.StatusDiverted
	case "delayed":
		return constants.StatusScheduled
	case "":
		return constants.StatusUnknown
	default:
		return constants.NormalizeStatus(status)
	}
}
