package offboarding

import (
	"time"

	errors "github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/core/common/validation"
)

type CreateRequestDTO struct {
	UserID      string   `json:"user_id"`
	AllSystems  bool     `json:"all_systems"`
	SystemIDs   []string `json:"system_ids,omitempty"`
	RemovalDate string   `json:"removal_date"`
	Notes       string   `json:"notes,omitempty"`
}

func (dto CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required()
	v.Field("removal_date", dto.RemovalDate).Required().Custom(func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return errors.NewValidationFieldError("removal_date", "removal_date must be YYYY-MM-DD", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	v.Field("notes", dto.Notes).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}

	// An explicit-subset request with nothing selected is meaningless.
	if !dto.AllSystems && len(dto.SystemIDs) == 0 {
		return errors.NewValidationFieldError("system_ids",
			"select at least one system or request removal from all systems",
			errors.ErrCodeNoSystemsChosen)
	}
	return nil
}

func (dto CreateRequestDTO) ParsedRemovalDate() time.Time {
	t, err := time.Parse("2006-01-02", dto.RemovalDate)
	if err != nil {
		return time.Time{}
	}
	return t
}
