package outboxstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"startupai-backend/models"
	dbmodels "startupai-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ResumeAttempt) (id string, err error)
	MarkSent(id string, sentAt time.Time) error
	MarkFailed(id string, lastError string) error
	// ClaimFailed flips one failed row back to pending; only the caller that
	// observes claimed == true may re-drive the resume call.
	ClaimFailed(id string) (claimed bool, err error)
	ListFailed(limit int) (list []dbmodels.ResumeAttempt, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ResumeAttempt) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) MarkSent(id string, sentAt time.Time) error {
	return i.db.
		Model(&dbmodels.ResumeAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  models.ResumeStatusSent,
			"sent_at": sentAt,
		}).
		Error
}

func (i impl) MarkFailed(id string, lastError string) error {
	return i.db.
		Model(&dbmodels.ResumeAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ResumeStatusFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).
		Error
}

func (i impl) ClaimFailed(id string) (bool, error) {
	tx := i.db.
		Model(&dbmodels.ResumeAttempt{}).
		Where("id = ?", id).
		Where("status = ?", models.ResumeStatusFailed).
		Updates(map[string]interface{}{"status": models.ResumeStatusPending})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) ListFailed(limit int) (list []dbmodels.ResumeAttempt, err error) {
	list = []dbmodels.ResumeAttempt{}
	err = i.db.
		Where("status = ?", models.ResumeStatusFailed).
		Order("updated_at ASC").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
