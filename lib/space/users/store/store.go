package spaceusersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"startupai-backend/models"
	dbmodels "startupai-backend/models/db"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.SpaceUser, err error)
	ListByRole(spaceID string, role models.UserRole) (list []dbmodels.SpaceUser, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.SpaceUser, error) {
	rec := dbmodels.SpaceUser{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) ListByRole(spaceID string, role models.UserRole) (list []dbmodels.SpaceUser, err error) {
	list = []dbmodels.SpaceUser{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("role = ?", role).
		Where("is_active = ?", true).
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
