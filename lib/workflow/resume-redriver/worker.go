package resumeredriver

import (
	"context"
	"time"

	"startupai-backend/db"
	baseworker "startupai-backend/lib/utils/base-worker"
	workflowclient "startupai-backend/lib/workflow/client"
	outboxstore "startupai-backend/lib/workflow/outbox-store"
	dbmodels "startupai-backend/models/db"
)

const (
	firstRunDelay = 30 * time.Second
	handlePeriod  = 1 * time.Minute
	batchSize     = 50
)

// StartWorker re-drives failed resume calls from the outbox. Each row is
// claimed with a compare-and-set before the call, so overlapping worker
// instances never resume the same decision twice.
func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("ResumeRedriver", firstRunDelay, handlePeriod),
		store:    outboxstore.NewInstance(db.DB),
		engine:   workflowclient.Instance,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store  outboxstore.Provider
	engine workflowclient.Provider
}

func (i impl) handle(ctx context.Context) {
	list, err := i.store.ListFailed(batchSize)
	if err != nil {
		i.GetLogger().WithError(err).Error("failed to load failed resume attempts")
		return
	}
	for _, rec := range list {
		select {
		case <-ctx.Done():
			return
		default:
		}
		i.redrive(ctx, rec)
	}
}

func (i impl) redrive(ctx context.Context, rec dbmodels.ResumeAttempt) {
	logger := i.GetLogger().
		WithField("approval_id", rec.ApprovalID).
		WithField("run_id", rec.RunID).
		WithField("attempts", rec.Attempts)

	claimed, err := i.store.ClaimFailed(rec.ID)
	if err != nil {
		logger.WithError(err).Error("failed to claim resume attempt")
		return
	}
	if !claimed {
		// another instance got here first
		return
	}

	err = i.engine.Resume(ctx, rec.RunID, rec.CheckpointID, rec.Decision, rec.Feedback)
	if err != nil {
		logger.WithError(err).Warn("resume retry failed")
		if storeErr := i.store.MarkFailed(rec.ID, err.Error()); storeErr != nil {
			logger.WithError(storeErr).Error("failed to mark resume attempt as failed")
		}
		return
	}
	if storeErr := i.store.MarkSent(rec.ID, time.Now().UTC()); storeErr != nil {
		logger.WithError(storeErr).Error("failed to mark resume attempt as sent")
		return
	}
	logger.Info("resume re-driven successfully")
}
