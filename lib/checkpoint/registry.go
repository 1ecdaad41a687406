package checkpoint

import (
	"sort"

	"startupai-backend/models"
)

// Known checkpoints of the external validation workflow. Adding a checkpoint
// to the engine without adding it here makes every decision for it fail
// closed with an unknown-checkpoint error; TestRegistryCoverage keeps this
// table, the render variants and the engine checkpoint list in sync.
const (
	ApproveBrief            models.CheckpointID = "approve_brief"
	ApproveDiscoveryOutput  models.CheckpointID = "approve_discovery_output"
	ApprovePersonaSet       models.CheckpointID = "approve_persona_set"
	ApproveValidationPlan   models.CheckpointID = "approve_validation_plan"
	ApproveInterviewScript  models.CheckpointID = "approve_interview_script"
	ApproveExperimentBudget models.CheckpointID = "approve_experiment_budget"
	ApproveDesirabilityGate models.CheckpointID = "approve_desirability_gate"
	ApproveFeasibilityGate  models.CheckpointID = "approve_feasibility_gate"
	ApproveViabilityGate    models.CheckpointID = "approve_viability_gate"
	ApproveScaleGate        models.CheckpointID = "approve_scale_gate"
	ApproveFinalReport      models.CheckpointID = "approve_final_report"
)

type ContractEntry struct {
	ApprovalType models.ApprovalType
	OwnerRole    models.OwnerRole
	// RenderVariant may be empty for known-but-unclassified checkpoints;
	// those render with the generic card. Unknown checkpoints never default.
	RenderVariant models.RenderVariant
}

var contractTable = map[models.CheckpointID]ContractEntry{
	ApproveBrief: {
		ApprovalType:  models.ApprovalTypeContentReview,
		OwnerRole:     models.OwnerRoleFounder,
		RenderVariant: models.RenderVariantBriefReview,
	},
	ApproveDiscoveryOutput: {
		ApprovalType:  models.ApprovalTypeStageGate,
		OwnerRole:     models.OwnerRoleFounder,
		RenderVariant: models.RenderVariantDiscoveryBoard,
	},
	ApprovePersonaSet: {
		ApprovalType:  models.ApprovalTypeContentReview,
		OwnerRole:     models.OwnerRoleFounder,
		RenderVariant: models.RenderVariantPersonaCards,
	},
	ApproveValidationPlan: {
		ApprovalType:  models.ApprovalTypePlanSignOff,
		OwnerRole:     models.OwnerRoleFounder,
		RenderVariant: models.RenderVariantPlanTimeline,
	},
	ApproveInterviewScript: {
		ApprovalType: models.ApprovalTypeContentReview,
		OwnerRole:    models.OwnerRoleFounder,
	},
	ApproveExperimentBudget: {
		ApprovalType:  models.ApprovalTypeSpendConsent,
		OwnerRole:     models.OwnerRoleAdmin,
		RenderVariant: models.RenderVariantBudgetSummary,
	},
	ApproveDesirabilityGate: {
		ApprovalType:  models.ApprovalTypeStageGate,
		OwnerRole:     models.OwnerRoleValidator,
		RenderVariant: models.RenderVariantGateScore,
	},
	ApproveFeasibilityGate: {
		ApprovalType:  models.ApprovalTypeStageGate,
		OwnerRole:     models.OwnerRoleValidator,
		RenderVariant: models.RenderVariantGateScore,
	},
	ApproveViabilityGate: {
		ApprovalType:  models.ApprovalTypeStageGate,
		OwnerRole:     models.OwnerRoleValidator,
		RenderVariant: models.RenderVariantGateScore,
	},
	ApproveScaleGate: {
		ApprovalType:  models.ApprovalTypeStageGate,
		OwnerRole:     models.OwnerRoleValidator,
		RenderVariant: models.RenderVariantGateScore,
	},
	ApproveFinalReport: {
		ApprovalType: models.ApprovalTypeContentReview,
		OwnerRole:    models.OwnerRoleFounder,
	},
}

// Lookup resolves a checkpoint to its contract entry. The second result is
// false for checkpoints outside the table; callers must fail closed on it.
func Lookup(id models.CheckpointID) (ContractEntry, bool) {
	entry, ok := contractTable[id]
	return entry, ok
}

func IsKnownCheckpoint(id models.CheckpointID) bool {
	_, ok := contractTable[id]
	return ok
}

// RenderVariantFor falls back to the generic variant only for known
// checkpoints without a classified variant.
func RenderVariantFor(id models.CheckpointID) (models.RenderVariant, bool) {
	entry, ok := contractTable[id]
	if !ok {
		return "", false
	}
	if entry.RenderVariant == "" {
		return models.RenderVariantGeneric, true
	}
	return entry.RenderVariant, true
}

// AllCheckpointIDs enumerates the table for audit tooling and conformance
// tests, in stable order.
func AllCheckpointIDs() []models.CheckpointID {
	ids := make([]models.CheckpointID, 0, len(contractTable))
	for id := range contractTable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
