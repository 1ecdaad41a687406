package approvalapimodels

import (
	"time"

	"github.com/pkg/errors"

	"startupai-backend/models"
	dbmodels "startupai-backend/models/db"
)

// Stable error codes of the decision endpoint.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyDecided    = "ALREADY_DECIDED"
	CodeInvalidAction     = "INVALID_ACTION"
	CodeUnknownCheckpoint = "UNKNOWN_HITL_CHECKPOINT"
)

type DecideData struct {
	Action   models.ApprovalAction `json:"action"`
	Decision string                `json:"decision,omitempty"`
	Feedback string                `json:"feedback,omitempty"`
	OptionID string                `json:"option_id,omitempty"`
}

func (d DecideData) Validate() error {
	if d.Action == "" {
		return errors.New("action is required")
	}
	return nil
}

type ApprovalCreateData struct {
	ProjectID        string                     `json:"project_id"`
	ExecutionID      string                     `json:"execution_id"`
	CheckpointID     models.CheckpointID        `json:"checkpoint_id"`
	RequestingUserID string                     `json:"requesting_user_id"`
	Title            string                     `json:"title"`
	Description      string                     `json:"description"`
	TaskOutput       dbmodels.JSONB             `json:"task_output"`
	EvidenceSummary  string                     `json:"evidence_summary"`
	Options          []dbmodels.ApprovalOption  `json:"options"`
	ExpiresAt        *time.Time                 `json:"expires_at"`
}

func (d ApprovalCreateData) Validate() error {
	if d.ExecutionID == "" {
		return errors.New("execution_id is required")
	}
	if d.CheckpointID == "" {
		return errors.New("checkpoint_id is required")
	}
	return nil
}

type ApprovalView struct {
	ID              string                    `json:"id"`
	ProjectID       string                    `json:"project_id"`
	ExecutionID     string                    `json:"execution_id"`
	CheckpointID    models.CheckpointID       `json:"checkpoint_id"`
	RenderVariant   models.RenderVariant      `json:"render_variant"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description"`
	TaskOutput      dbmodels.JSONB            `json:"task_output,omitempty"`
	EvidenceSummary string                    `json:"evidence_summary,omitempty"`
	Options         []dbmodels.ApprovalOption `json:"options,omitempty"`
	Status          models.ApprovalStatus     `json:"status"`
	StatusName      string                    `json:"status_name"`
	Decision        string                    `json:"decision,omitempty"`
	HumanFeedback   string                    `json:"human_feedback,omitempty"`
	DecidedBy       string                    `json:"decided_by,omitempty"`
	DecidedAt       *time.Time                `json:"decided_at,omitempty"`
	ExpiresAt       *time.Time                `json:"expires_at,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	// ResumeFailed reports that the decision persisted but the engine resume
	// call failed; the outbox re-driver will retry it.
	ResumeFailed bool `json:"resume_failed,omitempty"`
}

func ApprovalConvert(rec dbmodels.ApprovalRequest, variant models.RenderVariant) ApprovalView {
	return ApprovalView{
		ID:              rec.ID,
		ProjectID:       rec.ProjectID,
		ExecutionID:     rec.ExecutionID,
		CheckpointID:    rec.CheckpointID,
		RenderVariant:   variant,
		Title:           rec.Title,
		Description:     rec.Description,
		TaskOutput:      rec.TaskOutput,
		EvidenceSummary: rec.EvidenceSummary,
		Options:         rec.Options,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		Decision:        rec.Decision,
		HumanFeedback:   rec.HumanFeedback,
		DecidedBy:       rec.DecidedBy,
		DecidedAt:       rec.DecidedAt,
		ExpiresAt:       rec.ExpiresAt,
		CreatedAt:       rec.CreatedAt,
	}
}

type ApprovalHistoryView struct {
	ApprovalID   string                `json:"approval_id"`
	ExecutionID  string                `json:"execution_id"`
	CheckpointID models.CheckpointID   `json:"checkpoint_id"`
	Status       models.ApprovalStatus `json:"status"`
	Decision     string                `json:"decision"`
	Feedback     string                `json:"feedback"`
	DecidedBy    string                `json:"decided_by"`
	CreatedAt    time.Time             `json:"created_at"`
}

func ApprovalHistoryConvert(rec dbmodels.ApprovalHistory) ApprovalHistoryView {
	return ApprovalHistoryView{
		ApprovalID:   rec.ApprovalID,
		ExecutionID:  rec.ExecutionID,
		CheckpointID: rec.CheckpointID,
		Status:       rec.Status,
		Decision:     rec.Decision,
		Feedback:     rec.Feedback,
		DecidedBy:    rec.DecidedBy,
		CreatedAt:    rec.CreatedAt,
	}
}

type EvidenceFileView struct {
	ID          string `json:"id"`
	ApprovalID  string `json:"approval_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func EvidenceFileConvert(rec dbmodels.EvidenceFile) EvidenceFileView {
	return EvidenceFileView{
		ID:          rec.ID,
		ApprovalID:  rec.ApprovalID,
		Name:        rec.Name,
		ContentType: rec.ContentType,
		Size:        rec.Size,
	}
}
