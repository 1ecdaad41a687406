package sessionapimodels

import (
	"github.com/pkg/errors"
)

const (
	AppendStatusCommitted       = "committed"
	AppendStatusDuplicate       = "duplicate"
	AppendStatusVersionConflict = "version_conflict"
)

type AppendData struct {
	MessageID string                 `json:"message_id"`
	Payload   map[string]interface{} `json:"payload"`
	// ExpectedVersion is the version the writer believes is current; nil skips
	// the comparison entirely (first write to a fresh transcript).
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

func (d AppendData) Validate() error {
	if d.MessageID == "" {
		return errors.New("message_id is required")
	}
	return nil
}

type AppendResult struct {
	Status  string `json:"status"`
	Version int64  `json:"version"`
}

type VersionConflictResult struct {
	Status          string `json:"status"`
	CurrentVersion  int64  `json:"current_version"`
	ExpectedVersion int64  `json:"expected_version"`
}

type MessageView struct {
	MessageID string                 `json:"message_id"`
	Version   int64                  `json:"version"`
	Payload   map[string]interface{} `json:"payload"`
}
