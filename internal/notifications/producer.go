package notifications

import (
	"context"
	"fmt"
	"time"

	"ticketflow/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher puts a notification on the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	Close() error
}

type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "ticket-notifications",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// KafkaPublisher publishes notifications with a synchronous sarama producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

func NewKafkaPublisher(config *KafkaProducerConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	// Hash on recipient so one user's notifications stay ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log := logger.GetDefault().WithComponent("notifications")
	log.Info("📤 Kafka notification producer created", "topic", config.Topic)
	return newKafkaPublisher(producer, config), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, config *KafkaProducerConfig) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		config:   config,
		log:      logger.GetDefault().WithComponent("notifications"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, notification *EmailNotification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.DebugContext(ctx, "📤 Notification published",
		"topic", p.config.Topic,
		"partition", partition,
		"offset", offset,
		"type", notification.Type,
		"recipient_id", notification.RecipientID.String(),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	p.log.Info("📤 Kafka notification producer closed")
	return nil
}

func createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
		{Key: []byte("recipient_id"), Value: []byte(notification.RecipientID.String())},
		{Key: []byte("producer"), Value: []byte("ticketflow")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
	if notification.EventID != nil {
		headers = append(headers, sarama.RecordHeader{Key: []byte("event_id"), Value: []byte(notification.EventID.String())})
	}
	if notification.TicketID != nil {
		headers = append(headers, sarama.RecordHeader{Key: []byte("ticket_id"), Value: []byte(notification.TicketID.String())})
	}
	return headers
}

// LogPublisher only logs notifications. Used when Kafka is disabled.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.GetDefault().WithComponent("notifications")}
}

func (p *LogPublisher) Publish(ctx context.Context, notification *EmailNotification) error {
	p.log.InfoContext(ctx, "📧 Notification (kafka disabled)",
		"type", notification.Type,
		"recipient_id", notification.RecipientID.String(),
		"subject", notification.Subject,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
