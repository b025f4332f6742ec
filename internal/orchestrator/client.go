// Package orchestrator is the outbound client for the workflow engine that
// executes job definitions. Calls go through a circuit breaker; when the
// engine is down the breaker fails fast and operators retry later.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable marks start or review calls that never reached the
// orchestrator or were rejected by it.
var ErrUnavailable = errors.New("orchestrator unavailable")

// LLM names the provider and token reference a job runs with.
type LLM struct {
	Provider string `json:"provider"`
	TokenRef string `json:"token_ref"`
}

// StartRequest dispatches a queued job to the orchestrator.
type StartRequest struct {
	TenantID   uuid.UUID      `json:"tenant_id"`
	JobID      uuid.UUID      `json:"job_id"`
	WorkflowID uuid.UUID      `json:"workflow_id"`
	PDFURL     string         `json:"pdf_url"`
	LLM        LLM            `json:"llm"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ReviewApproval resumes a job paused at a review gate.
type ReviewApproval struct {
	TenantID     uuid.UUID         `json:"tenant_id"`
	JobID        uuid.UUID         `json:"job_id"`
	GateID       string            `json:"gate_id"`
	KeysReviewed map[string]string `json:"keys_reviewed"`
}

// System defines the outbound orchestrator contract.
type System interface {
	Start(ctx context.Context, req StartRequest) error
	ApproveReview(ctx context.Context, approval ReviewApproval) error
}

type client struct {
	http    *http.Client
	cfg     *Config
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// New creates an orchestrator client with a shared circuit breaker across
// start and review calls.
func New(cfg *Config, logger *slog.Logger) System {
	log := logger.With("system", "orchestrator")

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "orchestrator",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeoutDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &client{
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		cfg:     cfg,
		breaker: breaker,
		logger:  log,
	}
}

func (c *client) Start(ctx context.Context, req StartRequest) error {
	return c.post(ctx, c.cfg.startURL(), req)
}

func (c *client) ApproveReview(ctx context.Context, approval ReviewApproval) error {
	return c.post(ctx, c.cfg.reviewURL(), approval)
}

func (c *client) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal orchestrator payload: %w", err)
	}

	_, err = c.breaker.Execute(func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return struct{}{}, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return struct{}{}, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
