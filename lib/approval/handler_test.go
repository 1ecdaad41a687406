package approvalhandler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"startupai-backend/lib/checkpoint"
	"startupai-backend/models"
	approvalapimodels "startupai-backend/models/api/approval"
	dbmodels "startupai-backend/models/db"
)

type fakeApprovalStore struct {
	recs       map[string]*dbmodels.ApprovalRequest
	casRefused bool
}

func (f *fakeApprovalStore) Create(rec dbmodels.ApprovalRequest) (string, error) {
	rec.ID = "ap-" + string(rec.CheckpointID)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeApprovalStore) GetByID(spaceID, id string) (*dbmodels.ApprovalRequest, error) {
	rec, ok := f.recs[id]
	if !ok || rec.SpaceID != spaceID {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeApprovalStore) ListPending(spaceID, projectID string) ([]dbmodels.ApprovalRequest, error) {
	list := []dbmodels.ApprovalRequest{}
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.Status == models.ApprovalStatusPending {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeApprovalStore) DecideIfPending(spaceID, id string, updMap map[string]interface{}) (bool, error) {
	if f.casRefused {
		return false, nil
	}
	rec, ok := f.recs[id]
	if !ok || rec.SpaceID != spaceID || rec.Status != models.ApprovalStatusPending {
		return false, nil
	}
	rec.Status = updMap["status"].(models.ApprovalStatus)
	rec.Decision = updMap["decision"].(string)
	rec.HumanFeedback = updMap["human_feedback"].(string)
	rec.DecidedBy = updMap["decided_by"].(string)
	return true, nil
}

func (f *fakeApprovalStore) ExpireOverdue(now time.Time) (int64, error) {
	var expired int64
	for _, rec := range f.recs {
		if rec.Status == models.ApprovalStatusPending && rec.IsExpired(now) {
			rec.Status = models.ApprovalStatusExpired
			expired++
		}
	}
	return expired, nil
}

type fakeHistoryStore struct {
	rows []dbmodels.ApprovalHistory
}

func (f *fakeHistoryStore) Create(rec dbmodels.ApprovalHistory) (string, error) {
	f.rows = append(f.rows, rec)
	return "h1", nil
}

func (f *fakeHistoryStore) List(spaceID, approvalID string) ([]dbmodels.ApprovalHistory, error) {
	return f.rows, nil
}

type fakeOutboxStore struct {
	created []dbmodels.ResumeAttempt
	sent    []string
	failed  []string
}

func (f *fakeOutboxStore) Create(rec dbmodels.ResumeAttempt) (string, error) {
	f.created = append(f.created, rec)
	return "ra1", nil
}

func (f *fakeOutboxStore) MarkSent(id string, sentAt time.Time) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxStore) MarkFailed(id string, lastError string) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeOutboxStore) ClaimFailed(id string) (bool, error) { return true, nil }

func (f *fakeOutboxStore) ListFailed(limit int) ([]dbmodels.ResumeAttempt, error) {
	return nil, nil
}

type resumeCall struct {
	runID        string
	checkpointID models.CheckpointID
	decision     string
	feedback     string
}

type fakeEngine struct {
	calls []resumeCall
	err   error
}

func (f *fakeEngine) Resume(ctx context.Context, runID string, checkpointID models.CheckpointID, decision, feedback string) error {
	f.calls = append(f.calls, resumeCall{runID, checkpointID, decision, feedback})
	return f.err
}

func newTestHandler() (impl, *fakeApprovalStore, *fakeHistoryStore, *fakeOutboxStore, *fakeEngine) {
	store := &fakeApprovalStore{recs: map[string]*dbmodels.ApprovalRequest{}}
	history := &fakeHistoryStore{}
	outbox := &fakeOutboxStore{}
	engine := &fakeEngine{}
	h := impl{
		store:        store,
		historyStore: history,
		outboxStore:  outbox,
		engine:       engine,
	}
	return h, store, history, outbox, engine
}

func pendingApproval(store *fakeApprovalStore, checkpointID models.CheckpointID) string {
	id, _ := store.Create(dbmodels.ApprovalRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: "space-1"},
		ProjectID:      "proj-1",
		ExecutionID:    "run-42",
		CheckpointID:   checkpointID,
		Status:         models.ApprovalStatusPending,
	})
	return id
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	t.Run(`approve persists a decision and resumes the run once`, func(t *testing.T) {
		h, store, history, outbox, engine := newTestHandler()
		id := pendingApproval(store, checkpoint.ApproveBrief)

		view, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action: models.ApprovalActionApprove,
		}, "user-7")
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
		require.Equal(t, models.DecisionApproved, view.Decision)
		require.Equal(t, models.FeedbackApprovedDefault, view.HumanFeedback)
		require.False(t, view.ResumeFailed)

		require.Len(t, engine.calls, 1)
		require.Equal(t, "run-42", engine.calls[0].runID)
		require.Equal(t, checkpoint.ApproveBrief, engine.calls[0].checkpointID)
		require.Equal(t, models.DecisionApproved, engine.calls[0].decision)

		require.Len(t, outbox.created, 1)
		require.Equal(t, []string{"ra1"}, outbox.sent)
		require.Len(t, history.rows, 1)
		require.Equal(t, "user-7", history.rows[0].DecidedBy)
	})

	t.Run(`reject resumes the run the same way approve does`, func(t *testing.T) {
		h, store, _, _, engine := newTestHandler()
		id := pendingApproval(store, checkpoint.ApproveValidationPlan)

		view, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action:   models.ApprovalActionReject,
			Feedback: "plan skips the pricing experiment",
		}, "user-7")
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusRejected, view.Status)
		require.Equal(t, models.DecisionRejected, view.Decision)

		require.Len(t, engine.calls, 1)
		require.Equal(t, models.DecisionRejected, engine.calls[0].decision)
		require.Equal(t, "plan skips the pricing experiment", engine.calls[0].feedback)
	})

	t.Run(`segment pivot approve sends iterate to the engine`, func(t *testing.T) {
		h, store, _, _, engine := newTestHandler()
		id := pendingApproval(store, checkpoint.ApproveDiscoveryOutput)

		view, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action:   models.ApprovalActionApprove,
			OptionID: "segment_pivot_intent",
			Feedback: "indie SaaS founders",
		}, "user-7")
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
		require.Equal(t, models.DecisionIterate, view.Decision)

		require.Len(t, engine.calls, 1)
		require.Equal(t, models.DecisionIterate, engine.calls[0].decision)
		require.Contains(t, engine.calls[0].feedback, "SEGMENT_PIVOT|")
		require.Contains(t, engine.calls[0].feedback, "indie SaaS founders")
	})

	t.Run(`unknown approval id`, func(t *testing.T) {
		h, _, _, _, _ := newTestHandler()
		_, err := h.Decide(ctx, "space-1", "missing", approvalapimodels.DecideData{
			Action: models.ApprovalActionApprove,
		}, "user-7")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(`approval of another space is not found`, func(t *testing.T) {
		h, store, _, _, _ := newTestHandler()
		id := pendingApproval(store, checkpoint.ApproveBrief)
		_, err := h.Decide(ctx, "space-2", id, approvalapimodels.DecideData{
			Action: models.ApprovalActionApprove,
		}, "user-7")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(`second decision is rejected and never resumes again`, func(t *testing.T) {
		h, store, _, _, engine := newTestHandler()
		id := pendingApproval(store, checkpoint.ApproveBrief)

		_, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action: models.ApprovalActionApprove,
		}, "user-7")
		require.Nil(t, err)

		_, err = h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action: models.ApprovalActionReject,
		}, "user-8")
		require.ErrorIs(t, err, ErrAlreadyDecided)
		require.Len(t, engine.calls, 1)
	})

	t.Run(`losing the compare-and-set race never resumes`, func(t *testing.T) {
		h, store, _, outbox, engine := newTestHandler()
		id := pendingApproval(store, checkpoint.ApproveBrief)
		store.casRefused = true

		_, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action: models.ApprovalActionApprove,
		}, "user-7")
		require.ErrorIs(t, err, ErrAlreadyDecided)
		require.Empty(t, engine.calls)
		require.Empty(t, outbox.created)
	})

	t.Run(`invalid action`, func(t *testing.T) {
		h, store, _, _, engine := newTestHandler()
		id := pendingApproval(store, checkpoint.ApproveBrief)

		_, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action: "maybe",
		}, "user-7")
		require.ErrorIs(t, err, ErrInvalidAction)
		require.Empty(t, engine.calls)
	})

	t.Run(`stored row with unknown checkpoint fails closed`, func(t *testing.T) {
		h, store, _, _, engine := newTestHandler()
		id := pendingApproval(store, "approve_from_next_release")

		_, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action: models.ApprovalActionApprove,
		}, "user-7")
		require.ErrorIs(t, err, ErrUnknownCheckpoint)
		require.Empty(t, engine.calls)

		rec, _ := store.GetByID("space-1", id)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
	})

	t.Run(`engine failure keeps the decision and reports resume failed`, func(t *testing.T) {
		h, store, _, outbox, engine := newTestHandler()
		engine.err = errors.New("engine unavailable")
		id := pendingApproval(store, checkpoint.ApproveBrief)

		view, err := h.Decide(ctx, "space-1", id, approvalapimodels.DecideData{
			Action: models.ApprovalActionApprove,
		}, "user-7")
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
		require.True(t, view.ResumeFailed)
		require.Equal(t, []string{"ra1"}, outbox.failed)
		require.Empty(t, outbox.sent)

		rec, _ := store.GetByID("space-1", id)
		require.Equal(t, models.ApprovalStatusApproved, rec.Status)
	})
}

func TestCreate(t *testing.T) {
	t.Run(`known checkpoint creates a pending request`, func(t *testing.T) {
		h, store, _, _, _ := newTestHandler()
		view, err := h.Create("space-1", approvalapimodels.ApprovalCreateData{
			ProjectID:    "proj-1",
			ExecutionID:  "run-42",
			CheckpointID: checkpoint.ApproveExperimentBudget,
			Title:        "Experiment budget",
		})
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusPending, view.Status)
		require.Equal(t, models.RenderVariantBudgetSummary, view.RenderVariant)
		require.Len(t, store.recs, 1)
	})

	t.Run(`unknown checkpoint is refused`, func(t *testing.T) {
		h, store, _, _, _ := newTestHandler()
		_, err := h.Create("space-1", approvalapimodels.ApprovalCreateData{
			ProjectID:    "proj-1",
			ExecutionID:  "run-42",
			CheckpointID: "approve_from_next_release",
		})
		require.ErrorIs(t, err, ErrUnknownCheckpoint)
		require.Empty(t, store.recs)
	})
}

func TestExpireOverdue(t *testing.T) {
	h, store, _, _, _ := newTestHandler()
	past := time.Now().UTC().Add(-time.Hour)
	id, _ := store.Create(dbmodels.ApprovalRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: "space-1"},
		CheckpointID:   checkpoint.ApproveBrief,
		Status:         models.ApprovalStatusPending,
		ExpiresAt:      &past,
	})
	pendingApproval(store, checkpoint.ApproveValidationPlan)

	expired, err := h.ExpireOverdue()
	require.Nil(t, err)
	require.Equal(t, int64(1), expired)

	rec, _ := store.GetByID("space-1", id)
	require.Equal(t, models.ApprovalStatusExpired, rec.Status)
}
