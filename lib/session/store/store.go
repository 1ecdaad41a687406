package sessionstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "startupai-backend/models/db"
)

type Outcome string

const (
	OutcomeCommitted       Outcome = "committed"
	OutcomeDuplicate       Outcome = "duplicate"
	OutcomeVersionConflict Outcome = "version_conflict"
)

type AppendResult struct {
	Outcome Outcome
	// Version the message is committed at (committed and duplicate outcomes).
	Version int64
	// Versions involved in a rejected write (conflict outcome only).
	CurrentVersion  int64
	ExpectedVersion int64
}

type Provider interface {
	// Append runs the idempotent optimistic append in one transaction.
	// Ordering is load-bearing: the message-id replay check runs before any
	// version comparison, so a retried request that already committed gets
	// its earlier success back even after other writers advanced the version.
	Append(spaceID, projectID, sessionID, messageID string, payload dbmodels.JSONB, expectedVersion *int64) (*AppendResult, error)
	GetSession(spaceID, sessionID string) (rec *dbmodels.ValidationSession, err error)
	GetMessage(sessionID, messageID string) (rec *dbmodels.SessionMessage, err error)
	ListMessages(spaceID, sessionID string) (list []dbmodels.SessionMessage, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Append(spaceID, projectID, sessionID, messageID string, payload dbmodels.JSONB, expectedVersion *int64) (*AppendResult, error) {
	result := &AppendResult{}
	err := i.db.Transaction(func(tx *gorm.DB) error {
		session := dbmodels.ValidationSession{}
		err := tx.
			Where("id = ?", sessionID).
			Where("space_id = ?", spaceID).
			First(&session).
			Error
		sessionExists := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if sessionExists {
			existing := dbmodels.SessionMessage{}
			err = tx.
				Where("session_id = ?", sessionID).
				Where("message_id = ?", messageID).
				First(&existing).
				Error
			if err == nil {
				result.Outcome = OutcomeDuplicate
				result.Version = existing.Version
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else {
			session = dbmodels.ValidationSession{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					BaseModel: dbmodels.BaseModel{ID: sessionID},
					SpaceID:   spaceID,
				},
				ProjectID: projectID,
				Version:   0,
			}
			if err = tx.Create(&session).Error; err != nil {
				return err
			}
		}

		var newVersion int64
		if expectedVersion == nil {
			upd := tx.
				Model(&dbmodels.ValidationSession{}).
				Where("id = ?", sessionID).
				Update("version", gorm.Expr("version + 1"))
			if upd.Error != nil {
				return upd.Error
			}
			if err = tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
				return err
			}
			newVersion = session.Version
		} else {
			upd := tx.
				Model(&dbmodels.ValidationSession{}).
				Where("id = ?", sessionID).
				Where("version = ?", *expectedVersion).
				Update("version", *expectedVersion+1)
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				if err = tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
					return err
				}
				result.Outcome = OutcomeVersionConflict
				result.CurrentVersion = session.Version
				result.ExpectedVersion = *expectedVersion
				return nil
			}
			newVersion = *expectedVersion + 1
		}

		msg := dbmodels.SessionMessage{
			SessionID: sessionID,
			MessageID: messageID,
			Version:   newVersion,
			Payload:   payload,
		}
		if err = tx.Create(&msg).Error; err != nil {
			// A concurrent writer may have committed the same message id
			// between the replay check and here; the unique index surfaces
			// it and the caller re-resolves it as a duplicate.
			return err
		}
		result.Outcome = OutcomeCommitted
		result.Version = newVersion
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (i impl) GetSession(spaceID, sessionID string) (*dbmodels.ValidationSession, error) {
	rec := dbmodels.ValidationSession{}
	err := i.db.
		Where("id = ?", sessionID).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetMessage(sessionID, messageID string) (*dbmodels.SessionMessage, error) {
	rec := dbmodels.SessionMessage{}
	err := i.db.
		Where("session_id = ?", sessionID).
		Where("message_id = ?", messageID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListMessages(spaceID, sessionID string) (list []dbmodels.SessionMessage, err error) {
	session, err := i.GetSession(spaceID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return []dbmodels.SessionMessage{}, nil
	}
	list = []dbmodels.SessionMessage{}
	err = i.db.
		Where("session_id = ?", sessionID).
		Order("version ASC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
