package repositories

import (
	"context"
	"fmt"

	gormModels "flightwatch/internal/models/gorm"

	"gorm.io/gorm"
)

type RuleRepo struct {
	db *gorm.DB
}

func NewRuleRepo(db *gorm.DB) *RuleRepo {
	return &RuleRepo{db: db}
}

// ListActive fetches active rules with their alerts, conditions and the
// referenced flights preloaded. Inactive rules are never evaluated, so
// they are filtered out here rather than in the engine.
func (r *RuleRepo) ListActive(ctx context.Context) ([]gormModels.Rule, error) {
	var rules []gormModels.Rule

	err := r.db.WithContext(ctx).
		Preload("Alerts").
		Preload("Alerts.Flight").
		Preload("Conditions").
		Preload("Conditions.Flight").
		Where("is_active = ?", true).
		Find(&rules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list active rules: %w", err)
	}

	return rules, nil
}

// GetByID fetches one rule with associations, nil when it does not exist
func (r *RuleRepo) GetByID(ctx context.Context, id string) (*gormModels.Rule, error) {
	var rule gormModels.Rule

	err := r.db.WithContext(ctx).
		Preload("Alerts").
		Preload("Conditions").
		Where("id = ?", id).
		First(&rule).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return &rule, nil
}

// Create inserts a rule together with its alerts and conditions
func (r *RuleRepo) Create(ctx context.Context, rule *gormModels.Rule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// DeleteWithDependents removes a rule and its alerts and conditions in a
// single transaction so a partial failure cannot orphan dependents.
func (r *RuleRepo) DeleteWithDependents(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rule_id = ?", id).Delete(&gormModels.Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete rule alerts: %w", err)
		}
		if err := tx.Where("rule_id = ?", id).Delete(&gormModels.Condition{}).Error; err != nil {
			return fmt.Errorf("failed to delete rule conditions: %w", err)
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&gormModels.Rule{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete rule: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("rule not found")
		}
		return nil
	})
}
