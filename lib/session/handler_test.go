package sessionhandler

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	sessionstore "startupai-backend/lib/session/store"
	sessionapimodels "startupai-backend/models/api/session"
	dbmodels "startupai-backend/models/db"
)

func newTestHandler(t *testing.T) Provider {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	require.Nil(t, db.AutoMigrate(&dbmodels.ValidationSession{}))
	require.Nil(t, db.AutoMigrate(&dbmodels.SessionMessage{}))
	return impl{store: sessionstore.NewInstance(db)}
}

func int64Ptr(v int64) *int64 { return &v }

func TestAppend(t *testing.T) {
	t.Run(`commit then replay then conflict`, func(t *testing.T) {
		h := newTestHandler(t)

		result, err := h.Append("space-1", "proj-1", "sess-1", sessionapimodels.AppendData{
			MessageID: "m1",
			Payload:   map[string]interface{}{"text": "hello"},
		})
		require.Nil(t, err)
		committed, ok := result.(sessionapimodels.AppendResult)
		require.True(t, ok)
		require.Equal(t, sessionapimodels.AppendStatusCommitted, committed.Status)
		require.Equal(t, int64(1), committed.Version)

		result, err = h.Append("space-1", "proj-1", "sess-1", sessionapimodels.AppendData{
			MessageID: "m1",
			Payload:   map[string]interface{}{"text": "hello"},
		})
		require.Nil(t, err)
		duplicate, ok := result.(sessionapimodels.AppendResult)
		require.True(t, ok)
		require.Equal(t, sessionapimodels.AppendStatusDuplicate, duplicate.Status)
		require.Equal(t, int64(1), duplicate.Version)

		result, err = h.Append("space-1", "proj-1", "sess-1", sessionapimodels.AppendData{
			MessageID:       "m2",
			ExpectedVersion: int64Ptr(0),
		})
		require.Nil(t, err)
		conflict, ok := result.(sessionapimodels.VersionConflictResult)
		require.True(t, ok)
		require.Equal(t, sessionapimodels.AppendStatusVersionConflict, conflict.Status)
		require.Equal(t, int64(1), conflict.CurrentVersion)
		require.Equal(t, int64(0), conflict.ExpectedVersion)
	})

	t.Run(`messages come back in commit order`, func(t *testing.T) {
		h := newTestHandler(t)

		for _, messageID := range []string{"m1", "m2"} {
			_, err := h.Append("space-1", "proj-1", "sess-1", sessionapimodels.AppendData{
				MessageID: messageID,
				Payload:   map[string]interface{}{"id": messageID},
			})
			require.Nil(t, err)
		}

		list, err := h.Messages("space-1", "sess-1")
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "m1", list[0].MessageID)
		require.Equal(t, int64(1), list[0].Version)
		require.Equal(t, "m2", list[1].MessageID)
		require.Equal(t, int64(2), list[1].Version)
	})
}
