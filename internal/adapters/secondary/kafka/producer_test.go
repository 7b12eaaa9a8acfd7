package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

func TestSendTransformEvent(t *testing.T) {
	mock := mocks.NewSyncProducer(t, sarama.NewConfig())
	event := domain.TransformEvent{
		RequestID:    uuid.New(),
		Outcome:      domain.TransformCompleted,
		PromptLength: 12,
		InputBytes:   100,
		OutputBytes:  200,
		ArchiveKey:   "avatars/2025/12/24/x.png",
		DurationMs:   1500,
		CreatedAt:    time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != event.RequestID.String() {
			return errors.New("message key is not the request id")
		}
		if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != string(domain.TransformCompleted) {
			return errors.New("outcome header missing")
		}
		return nil
	})

	p := NewProducerWith(mock, "xmas.avatar.transforms", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, p.SendTransformEvent(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestSendTransformEvent_Failure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, sarama.NewConfig())
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerWith(mock, "topic", slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := p.SendTransformEvent(context.Background(), domain.TransformEvent{RequestID: uuid.New(), Outcome: domain.TransformFailed})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestTransformEvent_JSON(t *testing.T) {
	data, err := json.Marshal(domain.TransformEvent{Outcome: domain.TransformFailed, Error: "boom"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outcome":"transform.failed"`)
	assert.NotContains(t, string(data), "archive_key")
}

func TestConfig(t *testing.T) {
	cfg := &Config{Brokers: "a:9092, b:9092", SecurityProtocol: "SASL_SSL", SASLMechanism: "SCRAM-SHA-256"}
	assert.True(t, cfg.Enabled())
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.GetBrokers())

	sc := cfg.SaramaConfig()
	assert.True(t, sc.Net.SASL.Enable)
	assert.True(t, sc.Net.TLS.Enable)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypeSCRAMSHA256), sc.Net.SASL.Mechanism)

	assert.False(t, (&Config{}).Enabled())
}
