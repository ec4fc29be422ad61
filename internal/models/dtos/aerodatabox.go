package dtos

// AeroDataBox /flights/number/{ident} response shapes.

type AeroDataBoxFlight struct {
	Number    string               `json:"number"`
	Status    string               `json:"status"`
	Airline   AeroDataBoxAirline   `json:"airline"`
	Departure AeroDataBoxMovement  `json:"departure"`
	Arrival   AeroDataBoxMovement  `json:"arrival"`
	Aircraft  *AeroDataBoxAircraft `json:"aircraft"`
}

type AeroDataBoxAirline struct {
	Name string `json:"name"`
	IATA string `json:"iata"`
	ICAO string `json:"icao"`
}

type AeroDataBoxMovement struct {
	Airport       AeroDataBoxAirport `json:"airport"`
	ScheduledTime *AeroDataBoxTime   `json:"scheduledTime"`
	RevisedTime   *AeroDataBoxTime   `json:"revisedTime"`
	RunwayTime    *AeroDataBoxTime   `json:"runwayTime"`
	Terminal      string             `json:"terminal"`
	Gate          string             `json:"gate"`
}

type AeroDataBoxAirport struct {
	ICAO string `json:"icao"`
	IATA string `json:"iata"`
	Name string `json:"name"`
}

type AeroDataBoxTime struct {
	UTC   string `json:"utc"`
	Local string `json:"local"`
}

type AeroDataBoxAircraft struct {
	Registration string `json:"reg"`
	Model        string `json:"model"`
}
