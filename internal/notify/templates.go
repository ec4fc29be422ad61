package notify

import (
	"fmt"
	"time"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"
)

// RenderMessage builds the per-type notification title, plain-text body
// and HTML body for one (alert type, change) pair.
func RenderMessage(alertType constants.AlertType, flight *gormModels.TrackedFlight, event models.ChangeEvent) (title, text, html string) {
	route := fmt.Sprintf("%s → %s", flight.DepartureAirport, flight.ArrivalAirport)

	switch alertType {
	case constants.AlertStatusChange:
		title = fmt.Sprintf("Flight %s status update", flight.FlightNumber)
		text = fmt.Sprintf("Flight %s (%s) changed status from %q to %q.",
			flight.FlightNumber, route, event.Old, event.New)

	case constants.AlertDelay:
		direction := "delayed"
		minutes := event.DelayMinutes
		if minutes < 0 {
			direction = "moved earlier"
			minutes = -minutes
		}
		title = fmt.Sprintf("Flight %s %s by %d minutes", flight.FlightNumber, direction, minutes)
		text = fmt.Sprintf("Flight %s (%s) departure is now %s; previously %s (%d minute shift).",
			flight.FlightNumber, route, event.New, event.Old, event.DelayMinutes)

	case constants.AlertGateChange:
		title = fmt.Sprintf("Flight %s gate change", flight.FlightNumber)
		old := event.Old
		if old == "" {
			old = "unassigned"
		}
		text = fmt.Sprintf("Flight %s (%s) departure gate changed from %s to %s.",
			flight.FlightNumber, route, old, event.New)

	case constants.AlertDeparture:
		title = fmt.Sprintf("Flight %s has departed", flight.FlightNumber)
		text = fmt.Sprintf("Flight %s (%s) is now %s; departure time %s.",
			flight.FlightNumber, route, event.New, formatFlightTime(flight.DepartureTime))

	case constants.AlertArrival:
		title = fmt.Sprintf("Flight %s has arrived", flight.FlightNumber)
		text = fmt.Sprintf("Flight %s (%s) has landed; arrival time %s.",
			flight.FlightNumber, route, formatFlightTime(flight.ArrivalTime))

	case constants.NotificationTrackingEnded:
		title = fmt.Sprintf("Tracking ended for flight %s", flight.FlightNumber)
		text = fmt.Sprintf("Flight %s (%s) has concluded; status updates for it have stopped.",
			flight.FlightNumber, route)

	default:
		title = fmt.Sprintf("Flight %s update", flight.FlightNumber)
		text = fmt.Sprintf("Flight %s (%s) changed from %q to %q.",
			flight.FlightNumber, route, event.Old, event.New)
	}

	html = fmt.Sprintf("<h3>%s</h3><p>%s</p>", title, text)
	return title, text, html
}

// formatFlightTime renders the flight's own timestamp, not the time the
// message happened to be rendered.
func formatFlightTime(t *time.Time) string {
	if t == nil {
		return "unconfirmed"
	}
	return t.UTC().Format(time.RFC1123)
}
