package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	"flightwatch/internal/models/dtos"
)

// AviationStackProvider implements a provider for the aviationstack API
type AviationStackProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Ensure AviationStackProvider implements FlightProvider
var _ FlightProvider = (*AviationStackProvider)(nil)

// NewAviationStackProvider creates a new aviationstack provider
func NewAviationStackProvider(baseURL, apiKey string, timeout time.Duration) *AviationStackProvider {
	return &AviationStackProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *AviationStackProvider) GetProviderType() string {
	return "aviationstack"
}

// FetchFlight looks up a flight by IATA number and normalizes the response
func (p *AviationStackProvider) FetchFlight(ctx context.Context, ident string) (*models.Flight, error) {
	if ident == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Flight identifier cannot be empty",
		}
	}

	if p.APIKey == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "AVIATIONSTACK_API_KEY is not set",
		}
	}

	endpoint := fmt.Sprintf("/flights?access_key=%s&flight_iata=%s",
		url.QueryEscape(p.APIKey), url.QueryEscape(ident))

	var raw dtos.AviationStackResponse
	if err := p.doGET(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	if len(raw.Data) == 0 {
		return nil, nil
	}

	// The API returns the most recent flight instance first
	return p.normalize(&raw.Data[0]), nil
}

// normalize converts an aviationstack payload into the canonical Flight
func (p *AviationStackProvider) normalize(raw *dtos.AviationStackFlight) *models.Flight {
	flight := &models.Flight{
		Ident:        raw.Flight.IATA,
		FlightNumber: raw.Flight.Number,
		IATA:         raw.Flight.IATA,
		ICAO:         raw.Flight.ICAO,
		Airline:      raw.Airline.Name,
		Status:       constants.NormalizeStatus(raw.FlightStatus),
		Departure:    normalizeEndpoint(&raw.Departure),
		Arrival:      normalizeEndpoint(&raw.Arrival),
		Provider:     p.GetProviderType(),
		FetchedAt:    time.Now().UTC(),
	}

	if flight.Ident == "" {
		flight.Ident = raw.Flight.ICAO
	}

	if raw.Aircraft != nil {
		flight.Aircraft = &models.Aircraft{
			Registration: raw.Aircraft.Registration,
			IATA:         raw.Aircraft.IATA,
			ICAO24:       raw.Aircraft.ICAO24,
		}
	}

	if raw.Live != nil {
		live := &models.LivePosition{
			Latitude:  raw.Live.Latitude,
			Longitude: raw.Live.Longitude,
			Altitude:  raw.Live.Altitude,
			SpeedKts:  raw.Live.SpeedHorizontal,
			IsGround:  raw.Live.IsGround,
		}
		if ts := parseTimestamp(raw.Live.Updated); ts != nil {
			live.UpdatedAt = *ts
		}
		flight.Live = live
	}

	return flight
}

func normalizeEndpoint(raw *dtos.AviationStackEndpoint) models.FlightEndpoint {
	ep := models.FlightEndpoint{
		Airport:      raw.Airport,
		IATA:         raw.IATA,
		ICAO:         raw.ICAO,
		DelayMinutes: raw.Delay,
	}
	if raw.Terminal != nil {
		ep.Terminal = *raw.Terminal
	}
	if raw.Gate != nil {
		ep.Gate = *raw.Gate
	}
	if raw.Scheduled != nil {
		ep.Scheduled = parseTimestamp(*raw.Scheduled)
	}
	if raw.Estimated != nil {
		ep.Estimated = parseTimestamp(*raw.Estimated)
	}
	if raw.Actual != nil {
		ep.Actual = parseTimestamp(*raw.Actual)
	}
	return ep
}

// doGET performs a GET request and decodes the response
func (p *AviationStackProvider) doGET(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.BaseURL+endpoint, nil)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if err := buildHTTPError(resp, endpoint); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	return nil
}

// buildHTTPError converts a non-2xx response into a ProviderError
func buildHTTPError(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	body := string(bodyBytes)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeNotFound,
			Message: constants.GetErrorMessage(constants.ErrCodeNotFound),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, endpoint),
			Details: body,
		}
	}
}

// parseTimestamp parses provider timestamps, which arrive as RFC3339 with
// or without offset. Returns nil when unparseable.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
