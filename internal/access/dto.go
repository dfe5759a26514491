package access

import (
	"time"

	errors "github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/core/common/validation"
)

type GrantAccessDTO struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role,omitempty"`
	GrantedDate string `json:"granted_date,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

func (dto GrantAccessDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required()
	v.Field("role", dto.Role).MaxLength(100)
	if dto.GrantedDate != "" {
		v.Field("granted_date", dto.GrantedDate).Custom(func(value interface{}) *errors.AppError {
			s, ok := value.(string)
			if !ok {
				return nil
			}
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return errors.NewValidationFieldError("granted_date", "granted_date must be YYYY-MM-DD", errors.ErrCodeInvalidDate)
			}
			return nil
		})
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// GrantedDateOrNow parses the optional grant date, defaulting to today.
func (dto GrantAccessDTO) GrantedDateOrNow() time.Time {
	if dto.GrantedDate == "" {
		return time.Now()
	}
	t, err := time.Parse("2006-01-02", dto.GrantedDate)
	if err != nil {
		return time.Now()
	}
	return t
}

type UpdateTagsDTO struct {
	Tags []Tag `json:"tags"`
}

func (dto UpdateTagsDTO) Validate() error {
	v := validation.NewValidator()
	for _, t := range dto.Tags {
		v.Field("tags", t.Key).Required().MaxLength(100)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
