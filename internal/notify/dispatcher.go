package notify

import (
	"context"

	"flightwatch/internal/common"
	"flightwatch/internal/constants"
	"flightwatch/internal/db/repositories"
	"flightwatch/internal/logging"
	"flightwatch/internal/metrics"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"
)

// Dispatcher persists one Notification per firing (alert, change) pair
// and then attempts best-effort delivery. Persistence is the hard part
// of the contract: a transport failure is logged, never rolled back.
type Dispatcher struct {
	notifications *repositories.NotificationRepo
	users         *repositories.UserRepo
	transport     Transport
	metrics       *metrics.MetricsRegistry
}

func NewDispatcher(
	notifications *repositories.NotificationRepo,
	users *repositories.UserRepo,
	transport Transport,
	m *metrics.MetricsRegistry,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		transport:     transport,
		metrics:       m,
	}
}

// Dispatch persists and sends one notification. Returns an error only
// when the Notification row could not be created.
func (d *Dispatcher) Dispatch(ctx context.Context, alert gormModels.Alert, flight *gormModels.TrackedFlight, event models.ChangeEvent, ruleID *string) error {
	title, text, html := RenderMessage(alert.Type, flight, event)

	n := &gormModels.Notification{
		UserID:   alert.UserID,
		FlightID: flight.ID,
		RuleID:   ruleID,
		Type:     alert.Type,
		Title:    title,
		Message:  text,
	}

	if err := common.WithRetry(ctx, common.DefaultRetry, func() error {
		return d.notifications.Create(ctx, n)
	}); err != nil {
		return err
	}

	d.send(ctx, n.UserID, Message{Subject: title, TextBody: text, HTMLBody: html})
	return nil
}

// DispatchTrackingEnded sends the final notification when a flight
// reaches a terminal state and polling stops.
func (d *Dispatcher) DispatchTrackingEnded(ctx context.Context, flight *gormModels.TrackedFlight) error {
	title, text, html := RenderMessage(constants.NotificationTrackingEnded, flight, models.ChangeEvent{})

	n := &gormModels.Notification{
		UserID:   flight.UserID,
		FlightID: flight.ID,
		Type:     constants.NotificationTrackingEnded,
		Title:    title,
		Message:  text,
	}

	if err := common.WithRetry(ctx, common.DefaultRetry, func() error {
		return d.notifications.Create(ctx, n)
	}); err != nil {
		return err
	}

	d.send(ctx, n.UserID, Message{Subject: title, TextBody: text, HTMLBody: html})
	return nil
}

// send resolves the recipient and attempts delivery. Failures here are
// soft: the Notification row already exists.
func (d *Dispatcher) send(ctx context.Context, userID string, msg Message) {
	if d.transport == nil {
		return
	}

	user, err := d.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		logging.Warn("Notification recipient lookup failed",
			"user_id", userID,
		)
		return
	}
	msg.To = user.Email

	if err := d.transport.Send(ctx, msg); err != nil {
		logging.Warn("Notification transport send failed",
			"user_id", userID,
			"transport", d.transport.Name(),
			"error", err.Error(),
		)
		if d.metrics != nil {
			d.metrics.NotificationsTotal.WithLabelValues(d.transport.Name(), "error").Inc()
		}
		return
	}

	if d.metrics != nil {
		d.metrics.NotificationsTotal.WithLabelValues(d.transport.Name(), "ok").Inc()
	}
}
