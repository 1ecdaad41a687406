package decision

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"startupai-backend/lib/checkpoint"
	"startupai-backend/models"
)

func TestTranslate(t *testing.T) {
	t.Run(`plain approve gets default decision and feedback`, func(t *testing.T) {
		decision, feedback := Translate(checkpoint.ApproveBrief, models.ApprovalActionApprove, "", "")
		require.Equal(t, models.DecisionApproved, decision)
		require.Equal(t, models.FeedbackApprovedDefault, feedback)
	})

	t.Run(`plain reject gets default decision and feedback`, func(t *testing.T) {
		decision, feedback := Translate(checkpoint.ApproveValidationPlan, models.ApprovalActionReject, "", "")
		require.Equal(t, models.DecisionRejected, decision)
		require.Equal(t, models.FeedbackRejectedDefault, feedback)
	})

	t.Run(`raw decision and feedback pass through when set`, func(t *testing.T) {
		decision, feedback := Translate(checkpoint.ApproveBrief, models.ApprovalActionApprove, "option_b", "ship it")
		require.Equal(t, "option_b", decision)
		require.Equal(t, "ship it", feedback)
	})

	t.Run(`segment pivot on discovery approve rewrites to iterate`, func(t *testing.T) {
		decision, feedback := Translate(checkpoint.ApproveDiscoveryOutput, models.ApprovalActionApprove,
			RawDecisionSegmentPivot, "  solo founders in fintech  ")
		require.Equal(t, models.DecisionIterate, decision)
		require.True(t, strings.HasPrefix(feedback, "SEGMENT_PIVOT|"))

		var envelope segmentPivotEnvelope
		err := json.Unmarshal([]byte(strings.TrimPrefix(feedback, "SEGMENT_PIVOT|")), &envelope)
		require.Nil(t, err)
		require.Equal(t, "solo founders in fintech", envelope.TargetSegment)
		require.Equal(t, "solo founders in fintech", envelope.Rationale)
	})

	t.Run(`segment pivot with empty feedback still produces a valid envelope`, func(t *testing.T) {
		decision, feedback := Translate(checkpoint.ApproveDiscoveryOutput, models.ApprovalActionApprove,
			RawDecisionSegmentPivot, "")
		require.Equal(t, models.DecisionIterate, decision)

		var envelope segmentPivotEnvelope
		err := json.Unmarshal([]byte(strings.TrimPrefix(feedback, "SEGMENT_PIVOT|")), &envelope)
		require.Nil(t, err)
		require.Empty(t, envelope.TargetSegment)
	})

	t.Run(`segment pivot raw decision on other checkpoints passes through`, func(t *testing.T) {
		decision, feedback := Translate(checkpoint.ApproveBrief, models.ApprovalActionApprove,
			RawDecisionSegmentPivot, "not a pivot here")
		require.Equal(t, RawDecisionSegmentPivot, decision)
		require.Equal(t, "not a pivot here", feedback)
	})

	t.Run(`segment pivot raw decision on reject passes through`, func(t *testing.T) {
		decision, feedback := Translate(checkpoint.ApproveDiscoveryOutput, models.ApprovalActionReject,
			RawDecisionSegmentPivot, "wrong segment entirely")
		require.Equal(t, RawDecisionSegmentPivot, decision)
		require.Equal(t, "wrong segment entirely", feedback)
	})
}
