package postgres

import (
	"errors"
	"time"

	accessDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/access"
	"gorm.io/gorm"
)

// AccessRepository implements access.RepositoryAPI using GORM.
type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) Create(rec *accessDatamodel.Record) error {
	return r.db.Create(rec).Error
}

func (r *AccessRepository) GetByID(id string) (*accessDatamodel.Record, error) {
	var rec accessDatamodel.Record
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AccessRepository) GetByUserAndSystem(userID, systemID string) (*accessDatamodel.Record, error) {
	var rec accessDatamodel.Record
	err := r.db.Where("user_id = ? AND system_id = ?", userID, systemID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AccessRepository) GetByUserID(userID string) ([]*accessDatamodel.Record, error) {
	var records []*accessDatamodel.Record
	err := r.db.Where("user_id = ?", userID).
		Order("granted_date ASC").
		Find(&records).Error
	return records, err
}

func (r *AccessRepository) GetBySystemID(systemID string) ([]*accessDatamodel.Record, error) {
	var records []*accessDatamodel.Record
	err := r.db.Where("system_id = ?", systemID).
		Order("granted_date ASC").
		Find(&records).Error
	return records, err
}

func (r *AccessRepository) UpdateTags(id string, tags *string) error {
	return r.db.Model(&accessDatamodel.Record{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tags":       tags,
			"updated_at": time.Now(),
		}).Error
}

func (r *AccessRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&accessDatamodel.Record{}).Error
}
