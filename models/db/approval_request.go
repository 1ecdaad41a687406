package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"startupai-backend/models"
)

// ApprovalRequest is one pause point of an external workflow run awaiting a
// human decision. It is created by the engine webhook, transitions out of
// pending exactly once and stays read-only after that.
type ApprovalRequest struct {
	BaseSpaceModel
	ProjectID        string               `gorm:"type:varchar(36);index"`
	ExecutionID      string               `gorm:"type:varchar(64);index"`
	CheckpointID     models.CheckpointID  `gorm:"type:varchar(64)"`
	RequestingUserID string               `gorm:"type:varchar(36)"`
	Title            string               `gorm:"type:varchar(255)"`
	Description      string
	TaskOutput       JSONB                 `gorm:"type:jsonb"`
	EvidenceSummary  string
	Options          ApprovalOptions       `gorm:"type:jsonb"`
	Status           models.ApprovalStatus `gorm:"type:varchar(20);index"`
	Decision         string                `gorm:"type:varchar(100)"`
	HumanFeedback    string
	DecidedBy        string     `gorm:"type:varchar(36)"`
	DecidedAt        *time.Time
	ExpiresAt        *time.Time
}

// IsExpired derives expiry from the deadline; the status column may still say
// pending until the sweep worker catches up.
func (r ApprovalRequest) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

type ApprovalOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	RiskLevel   string `json:"risk_level"`
	Recommended bool   `json:"recommended"`
}

type ApprovalOptions []ApprovalOption

func (o ApprovalOptions) Value() (driver.Value, error) {
	valueString, err := json.Marshal(o)
	return string(valueString), err
}

func (o *ApprovalOptions) Scan(value any) error {
	if value == nil {
		*o = nil
		return nil
	}
	if data, ok := value.([]byte); ok {
		return json.Unmarshal(data, o)
	}
	return json.Unmarshal([]byte(value.(string)), o)
}

// ApprovalHistory is the audit row written on every resolved decision.
type ApprovalHistory struct {
	BaseSpaceModel
	ApprovalID   string                `gorm:"type:varchar(36);index"`
	ExecutionID  string                `gorm:"type:varchar(64)"`
	CheckpointID models.CheckpointID   `gorm:"type:varchar(64)"`
	Status       models.ApprovalStatus `gorm:"type:varchar(20)"`
	Decision     string                `gorm:"type:varchar(100)"`
	Feedback     string
	DecidedBy    string `gorm:"type:varchar(36)"`
}
