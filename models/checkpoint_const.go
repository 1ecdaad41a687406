package models

// CheckpointID names a pause point of the external validation workflow.
// The full set of known checkpoints lives in lib/checkpoint; a CheckpointID
// outside that table is a data-integrity defect, never a default.
type CheckpointID string

type ApprovalType string

const (
	ApprovalTypeStageGate     ApprovalType = "STAGE_GATE"
	ApprovalTypeContentReview ApprovalType = "CONTENT_REVIEW"
	ApprovalTypePlanSignOff   ApprovalType = "PLAN_SIGN_OFF"
	ApprovalTypeSpendConsent  ApprovalType = "SPEND_CONSENT"
)

type OwnerRole string

const (
	OwnerRoleFounder   OwnerRole = "FOUNDER"
	OwnerRoleValidator OwnerRole = "VALIDATOR"
	OwnerRoleAdmin     OwnerRole = "SPACE_ADMIN"
)

type RenderVariant string

const (
	RenderVariantGeneric        RenderVariant = "GENERIC"
	RenderVariantBriefReview    RenderVariant = "BRIEF_REVIEW"
	RenderVariantDiscoveryBoard RenderVariant = "DISCOVERY_BOARD"
	RenderVariantPersonaCards   RenderVariant = "PERSONA_CARDS"
	RenderVariantPlanTimeline   RenderVariant = "PLAN_TIMELINE"
	RenderVariantGateScore      RenderVariant = "GATE_SCORE"
	RenderVariantBudgetSummary  RenderVariant = "BUDGET_SUMMARY"
)

var renderVariantHumanName = map[RenderVariant]string{
	RenderVariantGeneric:        "Generic approval card",
	RenderVariantBriefReview:    "Entrepreneur brief review",
	RenderVariantDiscoveryBoard: "Customer discovery board",
	RenderVariantPersonaCards:   "Persona cards",
	RenderVariantPlanTimeline:   "Validation plan timeline",
	RenderVariantGateScore:      "Gate readiness score",
	RenderVariantBudgetSummary:  "Budget summary",
}

func (v RenderVariant) ToHuman() string {
	if human, exist := renderVariantHumanName[v]; exist {
		return human
	}
	return string(v)
}
