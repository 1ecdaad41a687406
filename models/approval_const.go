package models

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
	ApprovalStatusExpired  ApprovalStatus = "expired"
)

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:  "Awaiting decision",
	ApprovalStatusApproved: "Approved",
	ApprovalStatusRejected: "Rejected",
	ApprovalStatusExpired:  "Expired",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected || s == ApprovalStatusExpired
}

type ApprovalAction string

const (
	ApprovalActionApprove ApprovalAction = "approve"
	ApprovalActionReject  ApprovalAction = "reject"
)

func (a ApprovalAction) IsValid() bool {
	return a == ApprovalActionApprove || a == ApprovalActionReject
}

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
	DecisionIterate  = "iterate"
)

const (
	FeedbackApprovedDefault = "Approved by user"
	FeedbackRejectedDefault = "Rejected by user"
)

type ResumeStatus string

const (
	ResumeStatusPending ResumeStatus = "pending"
	ResumeStatusSent    ResumeStatus = "sent"
	ResumeStatusFailed  ResumeStatus = "failed"
)
