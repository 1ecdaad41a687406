package approvalhandler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"startupai-backend/db"
	approvalhistorystore "startupai-backend/lib/approval/history-store"
	approvalstore "startupai-backend/lib/approval/store"
	"startupai-backend/lib/checkpoint"
	"startupai-backend/lib/decision"
	"startupai-backend/lib/notify"
	workflowclient "startupai-backend/lib/workflow/client"
	outboxstore "startupai-backend/lib/workflow/outbox-store"
	"startupai-backend/models"
	approvalapimodels "startupai-backend/models/api/approval"
	dbmodels "startupai-backend/models/db"
)

// Stable sentinel errors of the decision state machine; controllers map them
// to the API error codes.
var (
	ErrNotFound          = errors.New("approval request not found")
	ErrAlreadyDecided    = errors.New("approval request already decided")
	ErrInvalidAction     = errors.New("invalid approval action")
	ErrUnknownCheckpoint = errors.New("unknown hitl checkpoint")
)

type Provider interface {
	Create(spaceID string, data approvalapimodels.ApprovalCreateData) (*approvalapimodels.ApprovalView, error)
	GetByID(spaceID, id string) (*approvalapimodels.ApprovalView, error)
	ListPending(spaceID, projectID string) ([]approvalapimodels.ApprovalView, error)
	History(spaceID, approvalID string) ([]approvalapimodels.ApprovalHistoryView, error)
	Decide(ctx context.Context, spaceID, approvalID string, data approvalapimodels.DecideData, actingUserID string) (*approvalapimodels.ApprovalView, error)
	ExpireOverdue() (int64, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        approvalstore.NewInstance(db.DB),
		historyStore: approvalhistorystore.NewInstance(db.DB),
		outboxStore:  outboxstore.NewInstance(db.DB),
		engine:       workflowclient.Instance,
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store:        approvalstore.NewInstance(tx),
		historyStore: approvalhistorystore.NewInstance(tx),
		outboxStore:  outboxstore.NewInstance(tx),
		engine:       workflowclient.Instance,
	}
}

type impl struct {
	store        approvalstore.Provider
	historyStore approvalhistorystore.Provider
	outboxStore  outboxstore.Provider
	engine       workflowclient.Provider
}

func (i impl) GetLogger(spaceID, approvalID string) *log.Entry {
	logger := log.
		WithField("space_id", spaceID).
		WithField("approval_id", approvalID)
	return logger
}

func (i impl) Create(spaceID string, data approvalapimodels.ApprovalCreateData) (*approvalapimodels.ApprovalView, error) {
	entry, ok := checkpoint.Lookup(data.CheckpointID)
	if !ok {
		// The engine paused at a checkpoint this build does not know about.
		// Never default the approval type or owner role; refuse the row.
		log.
			WithField("space_id", spaceID).
			WithField("checkpoint", string(data.CheckpointID)).
			Error("workflow engine requested approval for a checkpoint missing from the contract registry")
		return nil, ErrUnknownCheckpoint
	}

	rec := dbmodels.ApprovalRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ProjectID:        data.ProjectID,
		ExecutionID:      data.ExecutionID,
		CheckpointID:     data.CheckpointID,
		RequestingUserID: data.RequestingUserID,
		Title:            data.Title,
		Description:      data.Description,
		TaskOutput:       data.TaskOutput,
		EvidenceSummary:  data.EvidenceSummary,
		Options:          data.Options,
		Status:           models.ApprovalStatusPending,
		ExpiresAt:        data.ExpiresAt,
	}
	recID, err := i.store.Create(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save approval request, checkpoint=%v", data.CheckpointID)
	}
	rec.ID = recID

	if notify.Instance != nil {
		notify.Instance.ApprovalRequested(rec, entry.OwnerRole)
	}

	variant, _ := checkpoint.RenderVariantFor(rec.CheckpointID)
	view := approvalapimodels.ApprovalConvert(rec, variant)
	return &view, nil
}

func (i impl) GetByID(spaceID, id string) (*approvalapimodels.ApprovalView, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	variant, ok := checkpoint.RenderVariantFor(rec.CheckpointID)
	if !ok {
		i.GetLogger(spaceID, id).
			WithField("checkpoint", string(rec.CheckpointID)).
			Error("stored approval request references a checkpoint missing from the contract registry")
		return nil, ErrUnknownCheckpoint
	}
	view := approvalapimodels.ApprovalConvert(*rec, variant)
	return &view, nil
}

func (i impl) ListPending(spaceID, projectID string) ([]approvalapimodels.ApprovalView, error) {
	list, err := i.store.ListPending(spaceID, projectID)
	if err != nil {
		return nil, err
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(list))
	for _, rec := range list {
		variant, _ := checkpoint.RenderVariantFor(rec.CheckpointID)
		result = append(result, approvalapimodels.ApprovalConvert(rec, variant))
	}
	return result, nil
}

func (i impl) History(spaceID, approvalID string) ([]approvalapimodels.ApprovalHistoryView, error) {
	list, err := i.historyStore.List(spaceID, approvalID)
	if err != nil {
		return nil, err
	}
	result := make([]approvalapimodels.ApprovalHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.ApprovalHistoryConvert(rec))
	}
	return result, nil
}

// Decide resolves a pending approval and resumes the paused run exactly once.
//
// The status update is a compare-and-set scoped by status = pending, so two
// concurrent calls for the same approval race safely: the loser observes
// ErrAlreadyDecided and never reaches the resume call. Rejection resumes the
// run the same way approval does; the engine branches on the decision.
func (i impl) Decide(ctx context.Context, spaceID, approvalID string, data approvalapimodels.DecideData, actingUserID string) (*approvalapimodels.ApprovalView, error) {
	logger := i.GetLogger(spaceID, approvalID)

	rec, err := i.store.GetByID(spaceID, approvalID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if rec.Status != models.ApprovalStatusPending {
		return nil, ErrAlreadyDecided
	}
	if !data.Action.IsValid() {
		return nil, ErrInvalidAction
	}
	if !checkpoint.IsKnownCheckpoint(rec.CheckpointID) {
		logger.
			WithField("checkpoint", string(rec.CheckpointID)).
			Error("stored approval request references a checkpoint missing from the contract registry")
		return nil, ErrUnknownCheckpoint
	}

	// The UI submits either a free-form decision or a selected option id;
	// the option id is the raw decision when no explicit one is given.
	rawDecision := data.Decision
	if rawDecision == "" {
		rawDecision = data.OptionID
	}
	decided, feedback := decision.Translate(rec.CheckpointID, data.Action, rawDecision, data.Feedback)

	status := models.ApprovalStatusApproved
	if data.Action == models.ApprovalActionReject {
		status = models.ApprovalStatusRejected
	}
	decidedAt := time.Now().UTC()

	updated, err := i.store.DecideIfPending(spaceID, rec.ID, map[string]interface{}{
		"status":         status,
		"decision":       decided,
		"human_feedback": feedback,
		"decided_by":     actingUserID,
		"decided_at":     decidedAt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist approval decision")
	}
	if !updated {
		// Lost the race; the winner already triggered the resume.
		return nil, ErrAlreadyDecided
	}

	rec.Status = status
	rec.Decision = decided
	rec.HumanFeedback = feedback
	rec.DecidedBy = actingUserID
	rec.DecidedAt = &decidedAt

	i.audit(*rec)

	variant, _ := checkpoint.RenderVariantFor(rec.CheckpointID)
	view := approvalapimodels.ApprovalConvert(*rec, variant)
	view.ResumeFailed = !i.resume(ctx, *rec)
	return &view, nil
}

// resume performs phase two of the decision: the outbox row plus one call to
// the engine. The persisted decision is the source of truth; a failed call
// stays in the outbox for the re-driver and is never rolled back.
func (i impl) resume(ctx context.Context, rec dbmodels.ApprovalRequest) (ok bool) {
	logger := i.GetLogger(rec.SpaceID, rec.ID).
		WithField("run_id", rec.ExecutionID).
		WithField("checkpoint", string(rec.CheckpointID))

	attempt := dbmodels.ResumeAttempt{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.SpaceID,
		},
		ApprovalID:   rec.ID,
		RunID:        rec.ExecutionID,
		CheckpointID: rec.CheckpointID,
		Decision:     rec.Decision,
		Feedback:     rec.HumanFeedback,
		Status:       models.ResumeStatusPending,
		Attempts:     1,
	}
	attemptID, err := i.outboxStore.Create(attempt)
	if err != nil {
		logger.WithError(err).Error("failed to record resume attempt")
	}

	if err = i.engine.Resume(ctx, rec.ExecutionID, rec.CheckpointID, rec.Decision, rec.HumanFeedback); err != nil {
		logger.WithError(err).Error("workflow resume failed, decision kept, re-driver will retry")
		if attemptID != "" {
			if storeErr := i.outboxStore.MarkFailed(attemptID, err.Error()); storeErr != nil {
				logger.WithError(storeErr).Error("failed to mark resume attempt as failed")
			}
		}
		return false
	}
	if attemptID != "" {
		if storeErr := i.outboxStore.MarkSent(attemptID, time.Now().UTC()); storeErr != nil {
			logger.WithError(storeErr).Error("failed to mark resume attempt as sent")
		}
	}
	return true
}

func (i impl) audit(rec dbmodels.ApprovalRequest) {
	history := dbmodels.ApprovalHistory{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.SpaceID,
		},
		ApprovalID:   rec.ID,
		ExecutionID:  rec.ExecutionID,
		CheckpointID: rec.CheckpointID,
		Status:       rec.Status,
		Decision:     rec.Decision,
		Feedback:     rec.HumanFeedback,
		DecidedBy:    rec.DecidedBy,
	}
	if _, err := i.historyStore.Create(history); err != nil {
		i.GetLogger(rec.SpaceID, rec.ID).WithError(err).Error("failed to write approval history")
	}
}

func (i impl) ExpireOverdue() (int64, error) {
	return i.store.ExpireOverdue(time.Now().UTC())
}
