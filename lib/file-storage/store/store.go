package evidencefilestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "startupai-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.EvidenceFile) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.EvidenceFile, err error)
	List(spaceID, approvalID string) (list []dbmodels.EvidenceFile, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.EvidenceFile) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.EvidenceFile, error) {
	rec := dbmodels.EvidenceFile{}
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

func (i impl) List(spaceID, approvalID string) (list []dbmodels.EvidenceFile, err error) {
	list = []dbmodels.EvidenceFile{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("approval_id = ?", approvalID).
		Order("created_at ASC").
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
