package dbmodels

import (
	"fmt"

	"startupai-backend/models"
)

type Space struct {
	BaseModel
	Name     string `gorm:"type:varchar(255)"`
	PlanType string `gorm:"type:varchar(20)"`
	IsActive bool
}

type SpaceUser struct {
	BaseModel
	SpaceID   string `gorm:"type:varchar(36);index"`
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Email     string `gorm:"type:varchar(255)"`
	Role      models.UserRole `gorm:"type:varchar(50)"`
	IsActive  bool
}

func (r SpaceUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
