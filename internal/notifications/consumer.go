package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// RecipientResolver fills in the address of a notification recipient.
type RecipientResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	Heartbeat            time.Duration
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "ticketflow-notification-workers",
		Topics:               []string{"ticket-notifications"},
		SessionTimeout:       30 * time.Second,
		Heartbeat:            3 * time.Second,
		MaxProcessingTime:    5 * time.Minute,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// Consumer reads the notification topic with a consumer group and hands
// every message to the email service.
type Consumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler *ConsumerGroupHandler
	log     *logger.Logger
}

func NewConsumer(config *ConsumerConfig, emailService EmailService, resolver RecipientResolver) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group:   group,
		config:  config,
		handler: NewConsumerGroupHandler(config, emailService, resolver),
		log:     logger.GetDefault().WithComponent("notifications"),
	}, nil
}

// Run consumes with numWorkers goroutines until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, numWorkers int) error {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	c.log.Info("📥 Starting notification consumer workers", "workers", numWorkers, "topics", c.config.Topics)

	go func() {
		for err := range c.group.Errors() {
			c.log.Error("📥 Consumer group error", "error", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}
	wg.Wait()

	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.log.Info("📥 Notification consumer stopped")
	return nil
}

func (c *Consumer) runWorker(ctx context.Context, workerID int) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.group.Consume(ctx, c.config.Topics, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.Error("📥 Worker error consuming messages", "worker", workerID, "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

type ConsumerGroupHandler struct {
	config       *ConsumerConfig
	emailService EmailService
	resolver     RecipientResolver
	log          *logger.Logger
}

func NewConsumerGroupHandler(config *ConsumerConfig, emailService EmailService, resolver RecipientResolver) *ConsumerGroupHandler {
	return &ConsumerGroupHandler{
		config:       config,
		emailService: emailService,
		resolver:     resolver,
		log:          logger.GetDefault().WithComponent("notifications"),
	}
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				// delivery failures are logged and skipped; notifications never block the topic
				h.log.Error("📥 Failed to process notification", "offset", message.Offset, "error", err)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *ConsumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if notification.IsExpired() {
		h.log.Debug("📥 Notification expired, skipping", "id", notification.ID.String())
		return nil
	}

	if notification.RecipientEmail == "" {
		if h.resolver == nil {
			return fmt.Errorf("notification %s has no recipient address", notification.ID)
		}
		user, err := h.resolver.GetByID(ctx, notification.RecipientID)
		if err != nil {
			return fmt.Errorf("resolve recipient %s: %w", notification.RecipientID, err)
		}
		notification.RecipientEmail = user.Email
		if notification.RecipientName == "" {
			notification.RecipientName = user.FullName()
		}
	}

	notification.Status = NotificationStatusSending
	if err := h.executeWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	return nil
}

func (h *ConsumerGroupHandler) executeWithRetry(ctx context.Context, notification *EmailNotification) error {
	maxRetries := h.config.MaxRetries
	backoff := h.config.RetryBackoffDuration

	for attempt := 0; ; attempt++ {
		err := h.emailService.SendNotification(ctx, notification)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return fmt.Errorf("send failed after %d attempts: %w", attempt+1, err)
		}

		// Exponential backoff
		delay := backoff * time.Duration(1<<attempt)
		h.log.Warn("📥 Retrying notification", "id", notification.ID.String(), "attempt", attempt+1, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
