package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"startupai-backend/models"
)

// engineCheckpoints mirrors the checkpoint list of the validation workflow
// engine. Extend it together with contractTable.
var engineCheckpoints = []models.CheckpointID{
	ApproveBrief,
	ApproveDiscoveryOutput,
	ApprovePersonaSet,
	ApproveValidationPlan,
	ApproveInterviewScript,
	ApproveExperimentBudget,
	ApproveDesirabilityGate,
	ApproveFeasibilityGate,
	ApproveViabilityGate,
	ApproveScaleGate,
	ApproveFinalReport,
}

func TestRegistryCoverage(t *testing.T) {
	t.Run(`every engine checkpoint has a contract entry`, func(t *testing.T) {
		for _, id := range engineCheckpoints {
			entry, ok := Lookup(id)
			require.True(t, ok, "checkpoint %s has no contract entry", id)
			require.NotEmpty(t, entry.ApprovalType, "checkpoint %s has no approval type", id)
			require.NotEmpty(t, entry.OwnerRole, "checkpoint %s has no owner role", id)
		}
	})

	t.Run(`table has no entries outside the engine list`, func(t *testing.T) {
		known := map[models.CheckpointID]bool{}
		for _, id := range engineCheckpoints {
			known[id] = true
		}
		for _, id := range AllCheckpointIDs() {
			require.True(t, known[id], "contract entry %s is not an engine checkpoint", id)
		}
		require.Len(t, AllCheckpointIDs(), len(engineCheckpoints))
	})
}

func TestLookup(t *testing.T) {
	t.Run(`unknown checkpoint fails closed`, func(t *testing.T) {
		_, ok := Lookup("approve_everything")
		require.False(t, ok)
		require.False(t, IsKnownCheckpoint("approve_everything"))
	})

	t.Run(`budget consent is owned by the space admin`, func(t *testing.T) {
		entry, ok := Lookup(ApproveExperimentBudget)
		require.True(t, ok)
		require.Equal(t, models.ApprovalTypeSpendConsent, entry.ApprovalType)
		require.Equal(t, models.OwnerRoleAdmin, entry.OwnerRole)
	})
}

func TestRenderVariantFor(t *testing.T) {
	t.Run(`classified checkpoint keeps its variant`, func(t *testing.T) {
		variant, ok := RenderVariantFor(ApproveDiscoveryOutput)
		require.True(t, ok)
		require.Equal(t, models.RenderVariantDiscoveryBoard, variant)
	})

	t.Run(`known checkpoint without variant renders generic`, func(t *testing.T) {
		variant, ok := RenderVariantFor(ApproveInterviewScript)
		require.True(t, ok)
		require.Equal(t, models.RenderVariantGeneric, variant)

		variant, ok = RenderVariantFor(ApproveFinalReport)
		require.True(t, ok)
		require.Equal(t, models.RenderVariantGeneric, variant)
	})

	t.Run(`unknown checkpoint never defaults to generic`, func(t *testing.T) {
		variant, ok := RenderVariantFor("approve_from_next_release")
		require.False(t, ok)
		require.Empty(t, variant)
	})
}
