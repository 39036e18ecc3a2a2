package derivation

import (
	"errors"
	"fmt"

	"shipyard-monitor/backend/internal/model"
)

// ErrInvalidSettings a threshold or cost rate is negative.
var ErrInvalidSettings = errors.New("invalid notification settings")

// ValidateThresholds checks the values the notification predicates depend on.
func ValidateThresholds(s model.NotificationSettings) error {
	if s.MaxDefects < 0 {
		return fmt.Errorf("%w: max_defects must be >= 0, got %d", ErrInvalidSettings, s.MaxDefects)
	}
	if s.MaxDowntime < 0 {
		return fmt.Errorf("%w: max_downtime must be >= 0, got %d", ErrInvalidSettings, s.MaxDowntime)
	}
	return nil
}

// ValidateSettings checks a full settings value before it is saved.
func ValidateSettings(s model.NotificationSettings) error {
	if err := ValidateThresholds(s); err != nil {
		return err
	}
	if s.CostPerDefect.IsNegative() {
		return fmt.Errorf("%w: cost_per_defect must be >= 0, got %s", ErrInvalidSettings, s.CostPerDefect)
	}
	if s.CostPerMinuteDowntime.IsNegative() {
		return fmt.Errorf("%w: cost_per_minute_downtime must be >= 0, got %s", ErrInvalidSettings, s.CostPerMinuteDowntime)
	}
	return nil
}

// ExceedsDefects is the defect predicate shared by notifications and outbound alerts.
// Strictly greater than: a record exactly at the limit does not trigger.
func ExceedsDefects(r model.ProductionRecord, s model.NotificationSettings) bool {
	return r.DefectCount > s.MaxDefects
}

// ExceedsDowntime is the downtime predicate shared by notifications and outbound alerts.
func ExceedsDowntime(r model.ProductionRecord, s model.NotificationSettings) bool {
	return r.DowntimeMinutes > s.MaxDowntime
}
