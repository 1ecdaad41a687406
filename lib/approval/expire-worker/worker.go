package expireworker

import (
	"context"
	"time"

	approvalhandler "startupai-backend/lib/approval"
	baseworker "startupai-backend/lib/utils/base-worker"
)

const (
	firstRunDelay = 1 * time.Minute
	handlePeriod  = 5 * time.Minute
)

// StartWorker sweeps overdue pending approvals into the expired state.
// The sweep is a conditional update scoped by status = pending, so it can
// never clobber a decision that lands concurrently.
func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("ApprovalExpireSweep", firstRunDelay, handlePeriod),
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
}

func (i impl) handle(ctx context.Context) {
	expired, err := approvalhandler.Instance.ExpireOverdue()
	if err != nil {
		i.GetLogger().WithError(err).Error("failed to expire overdue approvals")
		return
	}
	if expired > 0 {
		i.GetLogger().Infof("expired %v overdue approvals", expired)
	}
}
