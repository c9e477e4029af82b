// Package chat forwards natural-language questions to the text-to-SQL service.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spendlens/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrQuestionRequired is returned when the question is missing or blank
var ErrQuestionRequired = errors.New("question is required")

// UpstreamError reports a failed call to the text-to-SQL service. Details
// carries the upstream JSON payload, its raw text, or the transport error
// message, in that order of preference.
type UpstreamError struct {
	StatusCode int
	Details    any
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("text-to-sql service returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("text-to-sql service unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client performs the raw call to the text-to-SQL service
type Client interface {
	Ask(ctx context.Context, question string) (json.RawMessage, error)
}

// Service validates questions and relays answers without interpreting them
type Service struct {
	client Client
	logger *zap.Logger
}

// NewService creates a chat Service
func NewService(client Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Ask forwards question and returns the upstream body verbatim
func (s *Service) Ask(ctx context.Context, question string) (json.RawMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "chat", "ask", attribute.Int("question.length", len(question)))
	defer span.End()

	answer, err := s.client.Ask(ctx, question)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Chat request failed", zap.Error(err))
		return nil, err
	}
	telemetry.SetOK(span)
	return answer, nil
}
