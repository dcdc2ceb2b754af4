package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/certprep-api/internal/middleware"
	"github.com/noah-isme/certprep-api/pkg/ai"
)

func connectTestNATS(t *testing.T) *nats.Conn {
	t.Helper()
	srv := natsserver.RunRandClientPortServer()
	t.Cleanup(srv.Shutdown)

	conn, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

func nextGenerationEvent(t *testing.T, sub *nats.Subscription) GenerationEvent {
	t.Helper()
	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var event GenerationEvent
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	return event
}

func TestNATSGenerationEventsPublishRun(t *testing.T) {
	conn := connectTestNATS(t)
	sub, err := conn.SubscribeSync("certprep.generation")
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	provider := &stubProvider{output: ai.TextOutput(`[{"text":"Q1","options":["a","b"],"correctIndex":0},{"text":"Q2","options":["c","d"],"correctIndex":1}]`)}
	svc := newGenerationService(provider, NewNATSGenerationEvents(conn, "certprep", zerolog.Nop()), QuestionGenerationConfig{})

	ctx := middleware.WithCorrelationID(context.Background(), "corr-nats")
	require.True(t, svc.Generate(ctx, awsRequest()).Succeeded())

	event := nextGenerationEvent(t, sub)
	require.Equal(t, "success", event.Outcome)
	require.Equal(t, 2, event.Questions)
	require.Equal(t, "AWS", event.Certification)
	require.Equal(t, "stub", event.Provider)
	require.Equal(t, "corr-nats", event.CorrelationID)
	require.False(t, event.OccurredAt.IsZero())

	_, err = ulid.Parse(event.ID)
	require.NoError(t, err)
}

func TestNATSGenerationEventsPublishFailureOutcome(t *testing.T) {
	conn := connectTestNATS(t)
	sub, err := conn.SubscribeSync("certprep.generation")
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	svc := newGenerationService(&stubProvider{output: ai.TextOutput("not json")}, NewNATSGenerationEvents(conn, "", zerolog.Nop()), QuestionGenerationConfig{})
	require.False(t, svc.Generate(context.Background(), awsRequest()).Succeeded())

	event := nextGenerationEvent(t, sub)
	require.Equal(t, "decode", event.Outcome)
	require.Zero(t, event.Questions)
	require.Empty(t, event.CorrelationID)
}

func TestNATSGenerationEventsSubjectFromBase(t *testing.T) {
	conn := connectTestNATS(t)
	sub, err := conn.SubscribeSync("prep.events.generation")
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	publisher := NewNATSGenerationEvents(conn, "prep:events:", zerolog.Nop())
	publisher.PublishGeneration(context.Background(), GenerationEvent{Outcome: "success", Questions: 3})

	event := nextGenerationEvent(t, sub)
	require.Equal(t, 3, event.Questions)
	require.NotEmpty(t, event.ID)
}
