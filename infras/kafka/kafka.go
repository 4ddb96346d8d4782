package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"

	"gamasa/config"
	"gamasa/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writeTimeout = 10 * time.Second
	retryBackoff = time.Second
)

type Message struct {
	Key   string
	Value any
}

// Encode renders the value as JSON on topic.
func (m Message) Encode(topic string) (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, errors.Wrap(err, "encode kafka message")
	}

	return kafkaGo.Message{Topic: topic, Key: []byte(m.Key), Value: value}, nil
}

// DecodeKafkaMessage unmarshals the JSON value of msg into T.
func DecodeKafkaMessage[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, errors.Wrapf(err, "decode kafka message %s/%d@%d", msg.Topic, msg.Partition, msg.Offset)
	}

	return value, nil
}

// Handler processes one message. A returned error leaves the message uncommitted and it is
// handed over again after a backoff.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	Enabled() bool
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler)
}

type kafkaClientImpl struct {
	config *config.Config
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
}

func New(cfg *config.Config) Client {
	dialer := &kafkaGo.Dialer{DualStack: true, Timeout: writeTimeout}
	transport := &kafkaGo.Transport{}

	if cfg.Kafka.SASL.Username != constant.Empty {
		mechanism := plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}

		dialer.SASLMechanism = mechanism
		transport.SASL = mechanism
	}

	client := &kafkaClientImpl{config: cfg, dialer: dialer}

	if client.Enabled() {
		client.writer = &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
			Transport:              transport,
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireAll,
			WriteTimeout:           writeTimeout,
			AllowAutoTopicCreation: true,
		}

		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka client initialized")
	} else {
		log.Warn().Msg("No Kafka brokers configured, events stay in process")
	}

	return client
}

// Enabled reports whether any broker is configured.
func (k *kafkaClientImpl) Enabled() bool {
	return len(k.config.Kafka.Brokers) > 0
}

// SendMessages writes every message to topic in one batch. Messages sharing a key land on the
// same partition.
func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	if !k.Enabled() {
		return errors.New("kafka is not configured")
	}

	batch := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.Encode(topic)
		if err != nil {
			return err
		}

		batch = append(batch, msg)
	}

	if err := k.writer.WriteMessages(ctx, batch...); err != nil {
		log.Error().Err(err).Str("topic", topic).Int("count", len(batch)).Msg("Failed to send messages to Kafka")

		return errors.Wrapf(err, "send messages to %s", topic)
	}

	log.Debug().Str("topic", topic).Int("count", len(batch)).Msg("Sent messages to Kafka")

	return nil
}

// Consume hands each message of topic to handler and commits its offset only once the handler
// succeeds, so neither a crash nor a failing handler loses a message. It returns when ctx is done.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) {
	if topic == constant.Empty {
		log.Error().Msg("Kafka topic is required to consume")

		return
	}

	if consumerGroup == constant.Empty {
		consumerGroup = k.config.Kafka.ConsumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     consumerGroup,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader")
		}
	}()

	logger := log.With().Str("topic", topic).Str("group", consumerGroup).Logger()
	logger.Info().Msg("Consuming Kafka topic")

	for {
		msg, err := reader.FetchMessage(ctx)

		switch {
		case ctx.Err() != nil:
			logger.Info().Msg("Kafka consumer stopped")

			return
		case err != nil:
			logger.Error().Err(err).Msg("Failed to fetch Kafka message")

			if !sleep(ctx, retryBackoff) {
				return
			}

			continue
		}

		if !HandleWithRetry(ctx, msg, handler, retryBackoff) {
			logger.Info().Int64("offset", msg.Offset).Msg("Kafka consumer stopped before the message was handled")

			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit Kafka offset")
		}
	}
}

// HandleWithRetry calls handler until it succeeds, waiting backoff between attempts. It
// reports false when ctx is done first.
func HandleWithRetry(ctx context.Context, msg kafkaGo.Message, handler Handler, backoff time.Duration) bool {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil {
			return true
		}

		log.Warn().Err(err).
			Str("topic", msg.Topic).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Msg("Kafka message handler failed, retrying")

		if !sleep(ctx, backoff) {
			return false
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
