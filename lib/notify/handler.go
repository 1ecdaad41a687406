package notify

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"startupai-backend/db"
	"startupai-backend/lib/checkpoint"
	"startupai-backend/lib/smtp"
	spaceusersstore "startupai-backend/lib/space/users/store"
	"startupai-backend/models"
	dbmodels "startupai-backend/models/db"
)

type Provider interface {
	// ApprovalRequested emails the owner-role users of the space. Best
	// effort: failures are logged and never block the caller.
	ApprovalRequested(rec dbmodels.ApprovalRequest, ownerRole models.OwnerRole)
}

var Instance Provider

func NewHandler(senderEmail string) {
	Instance = impl{
		senderEmail:     senderEmail,
		spaceUsersStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	senderEmail     string
	spaceUsersStore spaceusersstore.Provider
}

var ownerRoleToUserRole = map[models.OwnerRole]models.UserRole{
	models.OwnerRoleFounder:   models.FounderRole,
	models.OwnerRoleValidator: models.ValidatorRole,
	models.OwnerRoleAdmin:     models.SpaceAdminRole,
}

func (i impl) ApprovalRequested(rec dbmodels.ApprovalRequest, ownerRole models.OwnerRole) {
	logger := log.
		WithField("space_id", rec.SpaceID).
		WithField("approval_id", rec.ID).
		WithField("checkpoint", string(rec.CheckpointID))

	userRole, ok := ownerRoleToUserRole[ownerRole]
	if !ok {
		logger.Errorf("no user role mapped for owner role %v", ownerRole)
		return
	}
	recipients, err := i.spaceUsersStore.ListByRole(rec.SpaceID, userRole)
	if err != nil {
		logger.WithError(err).Error("failed to load approval notification recipients")
		return
	}

	variant, _ := checkpoint.RenderVariantFor(rec.CheckpointID)
	subject := fmt.Sprintf("Decision needed: %v", rec.Title)
	message := fmt.Sprintf(
		"The validation workflow paused at %q (%v) and is waiting for your decision.\n\n%v",
		rec.CheckpointID, variant.ToHuman(), rec.Description)

	for _, user := range recipients {
		if err := smtp.Instance.SendEMail(i.senderEmail, user.Email, message, subject); err != nil {
			logger.WithError(err).WithField("recipient", user.Email).Error("failed to send approval notification")
		}
	}
}
