package repositories

import (
	"context"
	"fmt"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"

	"gorm.io/gorm"
)

// terminalStatuses are statuses after which a flight is never a polling
// candidate again.
var terminalStatuses = []string{
	constants.StatusLanded,
	constants.StatusArrived,
}

type TrackedFlightRepo struct {
	db *gorm.DB
}

func NewTrackedFlightRepo(db *gorm.DB) *TrackedFlightRepo {
	return &TrackedFlightRepo{db: db}
}

// GetByID fetches one tracked flight, nil when it does not exist
func (r *TrackedFlightRepo) GetByID(ctx context.Context, id string) (*gormModels.TrackedFlight, error) {
	var flight gormModels.TrackedFlight

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&flight).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tracked flight: %w", err)
	}

	return &flight, nil
}

// ListByIDs fetches tracked flights for a set of ids, skipping unknown ones
func (r *TrackedFlightRepo) ListByIDs(ctx context.Context, ids []string) ([]gormModels.TrackedFlight, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var flights []gormModels.TrackedFlight
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list tracked flights: %w", err)
	}

	return flights, nil
}

// ListByUser fetches all tracked flights owned by a user
func (r *TrackedFlightRepo) ListByUser(ctx context.Context, userID string) ([]gormModels.TrackedFlight, error) {
	var flights []gormModels.TrackedFlight

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("departure_time ASC").
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list flights for user: %w", err)
	}

	return flights, nil
}

// ListPollable fetches flights that are not in a terminal state. Terminal
// flights keep their rows but are never polling candidates again.
func (r *TrackedFlightRepo) ListPollable(ctx context.Context, ids []string) ([]gormModels.TrackedFlight, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var flights []gormModels.TrackedFlight
	err := r.db.WithContext(ctx).
		Where("id IN ? AND status NOT IN ?", ids, terminalStatuses).
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list pollable flights: %w", err)
	}

	return flights, nil
}

// Create inserts a new tracked flight
func (r *TrackedFlightRepo) Create(ctx context.Context, flight *gormModels.TrackedFlight) error {
	if err := r.db.WithContext(ctx).Create(flight).Error; err != nil {
		return fmt.Errorf("failed to create tracked flight: %w", err)
	}
	return nil
}

// Delete removes a tracked flight and its dependent alerts and conditions
// in one transaction. Only users delete flights, never the engine.
func (r *TrackedFlightRepo) Delete(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flight_id = ?", id).Delete(&gormModels.Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete dependent alerts: %w", err)
		}
		if err := tx.Where("flight_id = ?", id).Delete(&gormModels.Condition{}).Error; err != nil {
			return fmt.Errorf("failed to delete dependent conditions: %w", err)
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&gormModels.TrackedFlight{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete tracked flight: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("tracked flight not found")
		}
		return nil
	})
}

// ApplyFreshState overwrites the stored snapshot with freshly fetched
// provider state. Only fields the provider actually supplied are written,
// so a partial response never clobbers confirmed data with blanks.
func (r *TrackedFlightRepo) ApplyFreshState(ctx context.Context, id string, fresh *models.Flight) error {
	updates := map[string]interface{}{}

	if fresh.Status != "" {
		updates["status"] = constants.NormalizeStatus(fresh.Status)
	}
	if fresh.Departure.Gate != "" {
		updates["gate"] = fresh.Departure.Gate
	}
	if fresh.Departure.Terminal != "" {
		updates["terminal"] = fresh.Departure.Terminal
	}
	if dep := fresh.DepartureTime(); dep != nil {
		updates["departure_time"] = *dep
	}
	if arr := fresh.ArrivalTime(); arr != nil {
		updates["arrival_time"] = *arr
	}

	if len(updates) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&gormModels.TrackedFlight{}).
		Where("id = ?", id).
		Updates(updates).Error

	if err != nil {
		return fmt.Errorf("failed to apply fresh flight state: %w", err)
	}
	return nil
}
