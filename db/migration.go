package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "startupai-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.Space{}); err != nil {
		return errors.Wrap(err, "failed to migrate Space")
	}
	if err := DB.AutoMigrate(&dbmodels.SpaceUser{}); err != nil {
		return errors.Wrap(err, "failed to migrate SpaceUser")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalRequest{}); err != nil {
		return errors.Wrap(err, "failed to migrate ApprovalRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalHistory{}); err != nil {
		return errors.Wrap(err, "failed to migrate ApprovalHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.ResumeAttempt{}); err != nil {
		return errors.Wrap(err, "failed to migrate ResumeAttempt")
	}
	if err := DB.AutoMigrate(&dbmodels.ValidationSession{}); err != nil {
		return errors.Wrap(err, "failed to migrate ValidationSession")
	}
	if err := DB.AutoMigrate(&dbmodels.SessionMessage{}); err != nil {
		return errors.Wrap(err, "failed to migrate SessionMessage")
	}
	if err := DB.AutoMigrate(&dbmodels.EvidenceFile{}); err != nil {
		return errors.Wrap(err, "failed to migrate EvidenceFile")
	}
	log.Info("migrations completed")
	return nil
}
