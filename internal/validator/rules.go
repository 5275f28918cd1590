package validator

import (
	"github.com/go-playground/validator/v10"

	"jobportal_backend/internal/models"
)

// registerCustomRules wires domain-specific validation tags.
func registerCustomRules(v *validator.Validate) error {
	// "notification_type" checks a string against the wire-level enum.
	if err := v.RegisterValidation("notification_type", func(fl validator.FieldLevel) bool {
		return models.IsValidNotificationType(models.NotificationType(fl.Field().String()))
	}); err != nil {
		return err
	}

	// "support_priority" accepts the ticket priority set.
	if err := v.RegisterValidation("support_priority", func(fl validator.FieldLevel) bool {
		switch models.SupportPriority(fl.Field().String()) {
		case models.SupportPriorityLow, models.SupportPriorityMedium,
			models.SupportPriorityHigh, models.SupportPriorityUrgent:
			return true
		}
		return false
	}); err != nil {
		return err
	}

	return nil
}
