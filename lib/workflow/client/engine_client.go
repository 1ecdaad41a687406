package workflowclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"startupai-backend/models"
)

type Provider interface {
	// Resume instructs the engine to continue a paused run past a checkpoint.
	// One outbound call, no retries here; retry policy lives with the caller.
	Resume(ctx context.Context, runID string, checkpointID models.CheckpointID, decision, feedback string) error
}

var Instance Provider

func NewProvider(resumeURL, apiToken string, timeout time.Duration) {
	Instance = NewClient(resumeURL, apiToken, timeout)
}

func NewClient(resumeURL, apiToken string, timeout time.Duration) Provider {
	return &impl{
		resumeURL: resumeURL,
		apiToken:  apiToken,
		client:    &http.Client{Timeout: timeout},
	}
}

type impl struct {
	resumeURL string
	apiToken  string
	client    *http.Client
}

type resumeRequest struct {
	RunID      string `json:"run_id"`
	Checkpoint string `json:"checkpoint"`
	Decision   string `json:"decision"`
	Feedback   string `json:"feedback"`
}

func (i impl) Resume(ctx context.Context, runID string, checkpointID models.CheckpointID, decision, feedback string) error {
	body, err := json.Marshal(resumeRequest{
		RunID:      runID,
		Checkpoint: string(checkpointID),
		Decision:   decision,
		Feedback:   feedback,
	})
	if err != nil {
		return errors.Wrap(err, "failed to serialize resume request")
	}

	logger := log.
		WithField("external_request", i.resumeURL).
		WithField("run_id", runID).
		WithField("checkpoint", string(checkpointID))

	r, _ := http.NewRequestWithContext(ctx, http.MethodPost, i.resumeURL, bytes.NewBuffer(body))
	r.Header.Add("Content-Type", "application/json")
	r.Header.Add("Authorization", fmt.Sprintf("Bearer %v", i.apiToken))

	response, err := i.client.Do(r)
	if err != nil {
		logger.WithError(err).Error("workflow engine resume call failed")
		return errors.Wrap(err, "workflow engine resume call failed")
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	responseBody, _ := io.ReadAll(response.Body)
	logger.
		WithField("status_code", response.StatusCode).
		WithField("response_body", string(responseBody)).
		Error("workflow engine rejected resume call")
	return errors.Errorf("workflow engine rejected resume call, status %v", response.StatusCode)
}
