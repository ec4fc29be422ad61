package models

import "time"

// FlightEndpoint is one side (departure or arrival) of a canonical flight.
type FlightEndpoint struct {
	Airport      string     `json:"airport"`
	IATA         string     `json:"iata"`
	ICAO         string     `json:"icao,omitempty"`
	Terminal     string     `json:"terminal,omitempty"`
	Gate         string     `json:"gate,omitempty"`
	Scheduled    *time.Time `json:"scheduled,omitempty"`
	Estimated    *time.Time `json:"estimated,omitempty"`
	Actual       *time.Time `json:"actual,omitempty"`
	DelayMinutes *int       `json:"delay_minutes,omitempty"`
}

// Aircraft carries optional airframe details when a provider supplies them.
type Aircraft struct {
	Registration string `json:"registration,omitempty"`
	IATA         string `json:"iata,omitempty"`
	ICAO24       string `json:"icao24,omitempty"`
}

// LivePosition carries optional live tracking data for airborne flights.
type LivePosition struct {
	UpdatedAt time.Time `json:"updated_at"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	SpeedKts  float64   `json:"speed_kts"`
	IsGround  bool      `json:"is_ground"`
}

// Flight is the canonical representation every provider response is
// normalized into at the gateway boundary.
type Flight struct {
	Ident        string         `json:"ident"` // normalized identifier, e.g. "BA142"
	FlightNumber string         `json:"flight_number"`
	IATA         string         `json:"iata,omitempty"`
	ICAO         string         `json:"icao,omitempty"`
	Airline      string         `json:"airline,omitempty"`
	Status       string         `json:"status"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	Aircraft     *Aircraft      `json:"aircraft,omitempty"`
	Live         *LivePosition  `json:"live,omitempty"`
	Provider     string         `json:"provider"`
	FetchedAt    time.Time      `json:"fetched_at"`
}

// DepartureTime returns the best available departure timestamp,
// preferring estimated over scheduled.
func (f *Flight) DepartureTime() *time.Time {
	if f.Departure.Estimated != nil {
		return f.Departure.Estimated
	}
	return f.Departure.Scheduled
}

// ArrivalTime returns the best available arrival timestamp.
func (f *Flight) ArrivalTime() *time.Time {
	if f.Arrival.Estimated != nil {
		return f.Arrival.Estimated
	}
	return f.Arrival.Scheduled
}
