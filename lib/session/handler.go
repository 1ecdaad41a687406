package sessionhandler

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"startupai-backend/db"
	sessionstore "startupai-backend/lib/session/store"
	sessionapimodels "startupai-backend/models/api/session"
)

type Provider interface {
	// Append commits one transcript message. The result is one of
	// AppendResult (committed/duplicate) or VersionConflictResult.
	Append(spaceID, projectID, sessionID string, data sessionapimodels.AppendData) (interface{}, error)
	Messages(spaceID, sessionID string) ([]sessionapimodels.MessageView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: sessionstore.NewInstance(db.DB),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store: sessionstore.NewInstance(tx),
	}
}

type impl struct {
	store sessionstore.Provider
}

func (i impl) GetLogger(spaceID, sessionID string) *log.Entry {
	logger := log.
		WithField("space_id", spaceID).
		WithField("session_id", sessionID)
	return logger
}

func (i impl) Append(spaceID, projectID, sessionID string, data sessionapimodels.AppendData) (interface{}, error) {
	result, err := i.store.Append(spaceID, projectID, sessionID, data.MessageID, data.Payload, data.ExpectedVersion)
	if err != nil {
		// Two racing writers with the same message id both pass the replay
		// check; the loser hits the unique index. Its commit already exists,
		// so answer with the duplicate instead of the raw storage error.
		msg, lookupErr := i.store.GetMessage(sessionID, data.MessageID)
		if lookupErr == nil && msg != nil {
			i.GetLogger(spaceID, sessionID).
				WithField("message_id", data.MessageID).
				Info("append replayed concurrently, resolved as duplicate")
			return sessionapimodels.AppendResult{
				Status:  sessionapimodels.AppendStatusDuplicate,
				Version: msg.Version,
			}, nil
		}
		return nil, err
	}

	switch result.Outcome {
	case sessionstore.OutcomeCommitted:
		return sessionapimodels.AppendResult{
			Status:  sessionapimodels.AppendStatusCommitted,
			Version: result.Version,
		}, nil
	case sessionstore.OutcomeDuplicate:
		return sessionapimodels.AppendResult{
			Status:  sessionapimodels.AppendStatusDuplicate,
			Version: result.Version,
		}, nil
	default:
		return sessionapimodels.VersionConflictResult{
			Status:          sessionapimodels.AppendStatusVersionConflict,
			CurrentVersion:  result.CurrentVersion,
			ExpectedVersion: result.ExpectedVersion,
		}, nil
	}
}

func (i impl) Messages(spaceID, sessionID string) ([]sessionapimodels.MessageView, error) {
	list, err := i.store.ListMessages(spaceID, sessionID)
	if err != nil {
		return nil, err
	}
	result := make([]sessionapimodels.MessageView, 0, len(list))
	for _, rec := range list {
		result = append(result, sessionapimodels.MessageView{
			MessageID: rec.MessageID,
			Version:   rec.Version,
			Payload:   rec.Payload,
		})
	}
	return result, nil
}
