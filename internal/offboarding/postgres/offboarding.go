package postgres

import (
	"errors"
	"time"

	accessDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/access"
	offboardingDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/offboarding"
	"github.com/frahmantamala/access-management/internal/offboarding"
	"gorm.io/gorm"
)

// OffboardingRepository implements offboarding.RepositoryAPI using GORM.
type OffboardingRepository struct {
	db *gorm.DB
}

func NewOffboardingRepository(db *gorm.DB) *OffboardingRepository {
	return &OffboardingRepository{db: db}
}

// Create inserts the request and its system selections in one
// transaction.
func (r *OffboardingRepository) Create(req *offboardingDatamodel.Request, systems []*offboardingDatamodel.RequestSystem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		for _, sel := range systems {
			if err := tx.Create(sel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OffboardingRepository) GetByID(id string) (*offboardingDatamodel.Request, error) {
	var req offboardingDatamodel.Request
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *OffboardingRepository) GetAll() ([]*offboardingDatamodel.Request, error) {
	var requests []*offboardingDatamodel.Request
	err := r.db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *OffboardingRepository) GetByStatus(status string) ([]*offboardingDatamodel.Request, error) {
	var requests []*offboardingDatamodel.Request
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *OffboardingRepository) GetRequestSystems(requestID string) ([]*offboardingDatamodel.RequestSystem, error) {
	var selections []*offboardingDatamodel.RequestSystem
	err := r.db.Where("request_id = ?", requestID).
		Order("position ASC").
		Find(&selections).Error
	return selections, err
}

// Complete deletes the covered access records and flips the request to
// completed in one transaction, so a failed status write rolls the
// revocations back.
func (r *OffboardingRepository) Complete(id, userID string, systemIDs []string, allSystems bool, completedAt time.Time) (int64, error) {
	var revoked int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if allSystems || len(systemIDs) > 0 {
			del := tx.Where("user_id = ?", userID)
			if !allSystems {
				del = del.Where("system_id IN ?", systemIDs)
			}
			res := del.Delete(&accessDatamodel.Record{})
			if res.Error != nil {
				return res.Error
			}
			revoked = res.RowsAffected
		}

		return tx.Model(&offboardingDatamodel.Request{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":       offboarding.StatusCompleted,
				"completed_at": completedAt,
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return revoked, nil
}
