package repositories

import (
	"context"
	"fmt"

	gormModels "flightwatch/internal/models/gorm"

	"gorm.io/gorm"
)

type AlertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

// ListActiveDirect fetches active alerts that are not bound to any rule,
// with their tracked flight preloaded. These drive the direct-alert path.
func (r *AlertRepo) ListActiveDirect(ctx context.Context) ([]gormModels.Alert, error) {
	var alerts []gormModels.Alert

	err := r.db.WithContext(ctx).
		Preload("Flight").
		Where("is_active = ? AND rule_id IS NULL", true).
		Find(&alerts).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list active direct alerts: %w", err)
	}

	return alerts, nil
}

// GetByID fetches one alert, nil when it does not exist
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*gormModels.Alert, error) {
	var alert gormModels.Alert

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&alert).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return &alert, nil
}

// Create inserts a new alert
func (r *AlertRepo) Create(ctx context.Context, alert *gormModels.Alert) error {
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// Delete removes an alert owned by the given user
func (r *AlertRepo) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&gormModels.Alert{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("alert not found")
	}
	return nil
}
