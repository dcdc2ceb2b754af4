package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/certprep-api/internal/middleware"
)

// GenerationEvent summarises one pipeline run. Generated content itself is never published.
type GenerationEvent struct {
	ID            string    `json:"id"`
	Certification string    `json:"certification"`
	Provider      string    `json:"provider"`
	Outcome       string    `json:"outcome"`
	Questions     int       `json:"questions"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// GenerationEventPublisher receives a GenerationEvent after every run. Publishing is best effort.
type GenerationEventPublisher interface {
	PublishGeneration(ctx context.Context, event GenerationEvent)
}

type noopGenerationEvents struct{}

func (noopGenerationEvents) PublishGeneration(context.Context, GenerationEvent) {}

type natsGenerationEvents struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewNATSGenerationEvents publishes on "<subjectBase>.generation". A nil connection disables publishing.
func NewNATSGenerationEvents(conn *nats.Conn, subjectBase string, logger zerolog.Logger) GenerationEventPublisher {
	if conn == nil {
		return noopGenerationEvents{}
	}

	base := strings.Trim(strings.ReplaceAll(subjectBase, ":", "."), ".")
	if base == "" {
		base = "certprep"
	}

	return &natsGenerationEvents{
		conn:    conn,
		subject: base + ".generation",
		logger:  logger.With().Str("component", "generation_events").Logger(),
		now:     time.Now,
	}
}

func (p *natsGenerationEvents) PublishGeneration(ctx context.Context, event GenerationEvent) {
	payload, err := json.Marshal(completeEvent(ctx, event, p.now))
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode generation event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish generation event")
	}
}

// completeEvent fills the id, timestamp and correlation id when the caller left them empty.
func completeEvent(ctx context.Context, event GenerationEvent, now func() time.Time) GenerationEvent {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now().UTC()
	}
	if event.ID == "" {
		event.ID = ulid.MustNew(ulid.Timestamp(event.OccurredAt), ulid.DefaultEntropy()).String()
	}
	if event.CorrelationID == "" {
		event.CorrelationID = middleware.CorrelationIDFromContext(ctx)
	}
	return event
}
