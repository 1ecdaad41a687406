package dbmodels

import (
	"time"

	"startupai-backend/models"
)

// ResumeAttempt is the outbox row for one resume call to the workflow engine.
// The persisted decision is the source of truth; a failed resume stays here
// until the re-driver or an operator pushes it through.
type ResumeAttempt struct {
	BaseSpaceModel
	ApprovalID   string              `gorm:"type:varchar(36);uniqueIndex"`
	RunID        string              `gorm:"type:varchar(64)"`
	CheckpointID models.CheckpointID `gorm:"type:varchar(64)"`
	Decision     string              `gorm:"type:varchar(100)"`
	Feedback     string
	Status       models.ResumeStatus `gorm:"type:varchar(20);index"`
	Attempts     int
	LastError    string
	SentAt       *time.Time
}
