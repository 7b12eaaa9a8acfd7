package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/IBM/sarama"

	"github.com/kopachlager/xmasavatar/internal/domain"
	ports "github.com/kopachlager/xmasavatar/internal/ports/kafka"
)

// Producer публикует события трансформации
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// NewProducer создаёт новый Kafka producer по конфигу
func NewProducer(cfg *Config, log *slog.Logger) (ports.IEventProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), cfg.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return NewProducerWith(producer, cfg.Topic, log), nil
}

// NewProducerWith оборачивает готовый sarama.SyncProducer
func NewProducerWith(producer sarama.SyncProducer, topic string, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// SendTransformEvent отправляет событие, ключ сообщения = request_id.
// Исход дублируется в header "outcome", чтобы потребители могли фильтровать без разбора value
func (p *Producer) SendTransformEvent(ctx context.Context, event domain.TransformEvent) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := event.RequestID.String()
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(valueBytes),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("outcome"),
				Value: []byte(event.Outcome),
			},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.topic,
			"key", key,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.topic, key, err)
	}

	p.log.Debug("transform event sent to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"key", key,
		"outcome", event.Outcome,
	)

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
