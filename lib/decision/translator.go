package decision

import (
	"encoding/json"
	"strings"

	"startupai-backend/lib/checkpoint"
	"startupai-backend/models"
)

// RawDecisionSegmentPivot is the raw option the discovery review UI submits
// when the founder wants to pivot to another customer segment instead of
// accepting the discovery output as-is.
const RawDecisionSegmentPivot = "segment_pivot_intent"

const segmentPivotPrefix = "SEGMENT_PIVOT|"

type segmentPivotEnvelope struct {
	TargetSegment string `json:"target_segment"`
	Rationale     string `json:"rationale"`
}

// Translate maps a raw human choice to the decision and feedback shape the
// workflow engine expects. Pure function, no I/O.
//
// The segment-pivot rewrite applies only when all three of checkpoint, action
// and raw decision match; it is a single checkpoint-specific business rule.
// Any future rewrite gets its own guarded branch here rather than a dispatch
// table, so unknown combinations keep falling through to the defaults.
func Translate(checkpointID models.CheckpointID, action models.ApprovalAction, rawDecision, feedback string) (decision, outFeedback string) {
	if checkpointID == checkpoint.ApproveDiscoveryOutput &&
		action == models.ApprovalActionApprove &&
		rawDecision == RawDecisionSegmentPivot {
		trimmed := strings.TrimSpace(feedback)
		envelope, _ := json.Marshal(segmentPivotEnvelope{
			TargetSegment: trimmed,
			Rationale:     trimmed,
		})
		return models.DecisionIterate, segmentPivotPrefix + string(envelope)
	}

	switch action {
	case models.ApprovalActionApprove:
		decision = models.DecisionApproved
		outFeedback = models.FeedbackApprovedDefault
	case models.ApprovalActionReject:
		decision = models.DecisionRejected
		outFeedback = models.FeedbackRejectedDefault
	}
	if rawDecision != "" {
		decision = rawDecision
	}
	if feedback != "" {
		outFeedback = feedback
	}
	return decision, outFeedback
}
