package workflowclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResume(t *testing.T) {
	t.Run(`sends the decision payload with bearer auth`, func(t *testing.T) {
		var gotAuth string
		var gotBody resumeRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			gotAuth = r.Header.Get("Authorization")
			require.Nil(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, "engine-token", time.Second)
		err := client.Resume(context.Background(), "run-42", "approve_brief", "approved", "Approved by user")
		require.Nil(t, err)

		require.Equal(t, "Bearer engine-token", gotAuth)
		require.Equal(t, "run-42", gotBody.RunID)
		require.Equal(t, "approve_brief", gotBody.Checkpoint)
		require.Equal(t, "approved", gotBody.Decision)
		require.Equal(t, "Approved by user", gotBody.Feedback)
	})

	t.Run(`non-2xx answer is an error`, func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "run not paused", http.StatusConflict)
		}))
		defer server.Close()

		client := NewClient(server.URL, "engine-token", time.Second)
		err := client.Resume(context.Background(), "run-42", "approve_brief", "approved", "Approved by user")
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "409")
	})

	t.Run(`unreachable engine is an error`, func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1/resume", "engine-token", 200*time.Millisecond)
		err := client.Resume(context.Background(), "run-42", "approve_brief", "approved", "Approved by user")
		require.NotNil(t, err)
	})
}
