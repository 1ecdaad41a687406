package approvalstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"startupai-backend/models"
	dbmodels "startupai-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ApprovalRequest) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.ApprovalRequest, err error)
	ListPending(spaceID, projectID string) (list []dbmodels.ApprovalRequest, err error)
	// DecideIfPending applies updMap only while the row is still pending.
	// Exactly one of N concurrent callers observes updated == true.
	DecideIfPending(spaceID, id string, updMap map[string]interface{}) (updated bool, err error)
	ExpireOverdue(now time.Time) (expired int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalRequest) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.ApprovalRequest, error) {
	rec := dbmodels.ApprovalRequest{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListPending(spaceID, projectID string) (list []dbmodels.ApprovalRequest, err error) {
	list = []dbmodels.ApprovalRequest{}
	tx := i.db.
		Where("space_id = ?", spaceID).
		Where("status = ?", models.ApprovalStatusPending).
		Order("created_at ASC")
	if projectID != "" {
		tx = tx.Where("project_id = ?", projectID)
	}
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) DecideIfPending(spaceID, id string, updMap map[string]interface{}) (bool, error) {
	if len(updMap) == 0 {
		return false, errors.New("empty update")
	}
	tx := i.db.
		Model(&dbmodels.ApprovalRequest{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Where("status = ?", models.ApprovalStatusPending).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) ExpireOverdue(now time.Time) (int64, error) {
	tx := i.db.
		Model(&dbmodels.ApprovalRequest{}).
		Where("status = ?", models.ApprovalStatusPending).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", now).
		Updates(map[string]interface{}{"status": models.ApprovalStatusExpired})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
