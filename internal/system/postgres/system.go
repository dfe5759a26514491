package postgres

import (
	"errors"

	accessDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/access"
	offboardingDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/offboarding"
	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	"gorm.io/gorm"
)

// SystemRepository implements system.RepositoryAPI using GORM.
type SystemRepository struct {
	db *gorm.DB
}

func NewSystemRepository(db *gorm.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

func (r *SystemRepository) Create(sys *systemDatamodel.System) error {
	return r.db.Create(sys).Error
}

func (r *SystemRepository) GetByID(id string) (*systemDatamodel.System, error) {
	var sys systemDatamodel.System
	err := r.db.Where("id = ?", id).First(&sys).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sys, nil
}

func (r *SystemRepository) GetAll() ([]*systemDatamodel.System, error) {
	var systems []*systemDatamodel.System
	err := r.db.Order("created_at ASC").Find(&systems).Error
	return systems, err
}

func (r *SystemRepository) Update(sys *systemDatamodel.System) error {
	return r.db.Save(sys).Error
}

// Delete removes the system and everything that hangs off it: co-owner
// links, supplemental fields, access records, and offboarding request
// selections that referenced it.
func (r *SystemRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("system_id = ?", id).Delete(&systemDatamodel.CoOwner{}).Error; err != nil {
			return err
		}
		if err := tx.Where("system_id = ?", id).Delete(&systemDatamodel.Field{}).Error; err != nil {
			return err
		}
		if err := tx.Where("system_id = ?", id).Delete(&accessDatamodel.Record{}).Error; err != nil {
			return err
		}
		if err := tx.Where("system_id = ?", id).Delete(&offboardingDatamodel.RequestSystem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&systemDatamodel.System{}).Error
	})
}

func (r *SystemRepository) GetCoOwners(systemID string) ([]*systemDatamodel.CoOwner, error) {
	var coOwners []*systemDatamodel.CoOwner
	err := r.db.Where("system_id = ?", systemID).
		Order("position ASC").
		Find(&coOwners).Error
	return coOwners, err
}

// GetCoOwnerIDs backs the authorization predicates.
func (r *SystemRepository) GetCoOwnerIDs(systemID string) ([]string, error) {
	coOwners, err := r.GetCoOwners(systemID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(coOwners))
	for _, co := range coOwners {
		ids = append(ids, co.UserID)
	}
	return ids, nil
}

func (r *SystemRepository) AddCoOwner(co *systemDatamodel.CoOwner) error {
	return r.db.Create(co).Error
}

func (r *SystemRepository) RemoveCoOwner(systemID, userID string) error {
	return r.db.Where("system_id = ? AND user_id = ?", systemID, userID).
		Delete(&systemDatamodel.CoOwner{}).Error
}

func (r *SystemRepository) ListFields(systemID string) ([]*systemDatamodel.Field, error) {
	var fields []*systemDatamodel.Field
	err := r.db.Where("system_id = ?", systemID).
		Order("created_at ASC").
		Find(&fields).Error
	return fields, err
}

func (r *SystemRepository) GetFieldByID(systemID, fieldID string) (*systemDatamodel.Field, error) {
	var field systemDatamodel.Field
	err := r.db.Where("system_id = ? AND id = ?", systemID, fieldID).First(&field).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &field, nil
}

func (r *SystemRepository) GetFieldByName(systemID, name string) (*systemDatamodel.Field, error) {
	var field systemDatamodel.Field
	err := r.db.Where("system_id = ? AND name = ?", systemID, name).First(&field).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &field, nil
}

func (r *SystemRepository) CreateField(f *systemDatamodel.Field) error {
	return r.db.Create(f).Error
}

func (r *SystemRepository) UpdateField(f *systemDatamodel.Field) error {
	return r.db.Save(f).Error
}

func (r *SystemRepository) DeleteField(systemID, fieldID string) error {
	return r.db.Where("system_id = ? AND id = ?", systemID, fieldID).
		Delete(&systemDatamodel.Field{}).Error
}
