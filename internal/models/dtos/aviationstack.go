package dtos

// AviationStack /flights response shapes. Timestamps arrive as RFC3339
// strings and are parsed at the provider boundary.

type AviationStackResponse struct {
	Pagination AviationStackPagination `json:"pagination"`
	Data       []AviationStackFlight   `json:"data"`
}

type AviationStackPagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

type AviationStackFlight struct {
	FlightDate   string                  `json:"flight_date"`
	FlightStatus string                  `json:"flight_status"`
	Departure    AviationStackEndpoint   `json:"departure"`
	Arrival      AviationStackEndpoint   `json:"arrival"`
	Airline      AviationStackAirline    `json:"airline"`
	Flight       AviationStackFlightInfo `json:"flight"`
	Aircraft     *AviationStackAircraft  `json:"aircraft"`
	Live         *AviationStackLive      `json:"live"`
}

type AviationStackEndpoint struct {
	Airport   string  `json:"airport"`
	Timezone  string  `json:"timezone"`
	IATA      string  `json:"iata"`
	ICAO      string  `json:"icao"`
	Terminal  *string `json:"terminal"`
	Gate      *string `json:"gate"`
	Delay     *int    `json:"delay"`
	Scheduled *string `json:"scheduled"`
	Estimated *string `json:"estimated"`
	Actual    *string `json:"actual"`
}

type AviationStackAirline struct {
	Name string `json:"name"`
	IATA string `json:"iata"`
	ICAO string `json:"icao"`
}

type AviationStackFlightInfo struct {
	Number string `json:"number"`
	IATA   string `json:"iata"`
	ICAO   string `json:"icao"`
}

type AviationStackAircraft struct {
	Registration string `json:"registration"`
	IATA         string `json:"iata"`
	ICAO24       string `json:"icao24"`
}

type AviationStackLive struct {
	Updated         string  `json:"updated"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Altitude        float64 `json:"altitude"`
	SpeedHorizontal float64 `json:"speed_horizontal"`
	IsGround        bool    `json:"is_ground"`
}
