package system

import (
	errors "github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/core/common/validation"
)

type CreateSystemDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	OwnerID     string `json:"owner_id"`
}

func (dto CreateSystemDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("description", dto.Description).Required().MaxLength(2000)
	v.Field("category", dto.Category).Required().OneOf(Categories(), errors.ErrCodeInvalidCategory)
	v.Field("owner_id", dto.OwnerID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateSystemDTO carries partial updates; nil fields are untouched.
type UpdateSystemDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	OwnerID     *string `json:"owner_id,omitempty"`
}

func (dto UpdateSystemDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(200)
	}
	if dto.Description != nil {
		v.Field("description", *dto.Description).Required().MaxLength(2000)
	}
	if dto.Category != nil {
		v.Field("category", *dto.Category).Required().OneOf(Categories(), errors.ErrCodeInvalidCategory)
	}
	if dto.OwnerID != nil {
		v.Field("owner_id", *dto.OwnerID).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CoOwnerDTO struct {
	UserID string `json:"user_id"`
}

func (dto CoOwnerDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateFieldDTO struct {
	Name      string  `json:"name"`
	FieldType string  `json:"field_type"`
	Options   *string `json:"options,omitempty"`
	Required  bool    `json:"required"`
}

func (dto CreateFieldDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("field_type", dto.FieldType).OneOf([]string{"text", "number", "date", "select", "checkbox"}, errors.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateFieldDTO struct {
	Name      *string `json:"name,omitempty"`
	FieldType *string `json:"field_type,omitempty"`
	Options   *string `json:"options,omitempty"`
	Required  *bool   `json:"required,omitempty"`
}

func (dto UpdateFieldDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(100)
	}
	if dto.FieldType != nil {
		v.Field("field_type", *dto.FieldType).OneOf([]string{"text", "number", "date", "select", "checkbox"}, errors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
