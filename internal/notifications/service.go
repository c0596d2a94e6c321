package notifications

import (
	"context"
	"fmt"

	"ticketflow/internal/shared/config"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

// TicketMessage carries what ticket notifications print.
type TicketMessage struct {
	TicketID       uuid.UUID
	EventID        uuid.UUID
	RecipientID    uuid.UUID
	EventTitle     string
	ConfirmationID string
	Price          string
	RefundAmount   string
	RedeemedAt     string
}

// Notifier publishes ticket lifecycle notifications. Failures are logged
// and never returned: a lost email must not undo a sale or a redemption.
type Notifier interface {
	TicketIssued(ctx context.Context, msg TicketMessage)
	TicketRedeemed(ctx context.Context, msg TicketMessage)
	TicketCancelled(ctx context.Context, msg TicketMessage)
	InvitationIssued(ctx context.Context, creatorID, invitationID uuid.UUID, eventTitle, guestName string)
}

type notifier struct {
	publisher Publisher
	log       *logger.Logger
}

func NewNotifier(publisher Publisher) Notifier {
	return &notifier{publisher: publisher, log: logger.GetDefault().WithComponent("notifications")}
}

func (n *notifier) TicketIssued(ctx context.Context, msg TicketMessage) {
	n.publishTicket(ctx, NotificationTypeTicketIssued, fmt.Sprintf("🎟️ Your ticket for %s", msg.EventTitle), msg)
}

func (n *notifier) TicketRedeemed(ctx context.Context, msg TicketMessage) {
	n.publishTicket(ctx, NotificationTypeTicketRedeemed, fmt.Sprintf("✅ Welcome to %s", msg.EventTitle), msg)
}

func (n *notifier) TicketCancelled(ctx context.Context, msg TicketMessage) {
	n.publishTicket(ctx, NotificationTypeTicketCancelled, fmt.Sprintf("❌ Ticket cancelled for %s", msg.EventTitle), msg)
}

func (n *notifier) InvitationIssued(ctx context.Context, creatorID, invitationID uuid.UUID, eventTitle, guestName string) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeInvitationIssued).
		WithRecipient(creatorID, "", "").
		WithSubject(fmt.Sprintf("💌 Invitation created for %s", eventTitle)).
		WithInvitationContext(invitationID).
		WithTemplateData(map[string]interface{}{
			"event_title": eventTitle,
			"guest_name":  guestName,
		}).
		Build()
	n.publish(ctx, notification)
}

func (n *notifier) publishTicket(ctx context.Context, typ NotificationType, subject string, msg TicketMessage) {
	notification := NewNotificationBuilder().
		WithType(typ).
		WithRecipient(msg.RecipientID, "", "").
		WithSubject(subject).
		WithEventContext(msg.EventID).
		WithTicketContext(msg.TicketID).
		WithTemplateData(map[string]interface{}{
			"event_title":     msg.EventTitle,
			"confirmation_id": msg.ConfirmationID,
			"price":           msg.Price,
			"refund_amount":   msg.RefundAmount,
			"redeemed_at":     msg.RedeemedAt,
		}).
		Build()
	n.publish(ctx, notification)
}

func (n *notifier) publish(ctx context.Context, notification *EmailNotification) {
	if n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, notification); err != nil {
		n.log.ErrorContext(ctx, "Failed to publish notification",
			"type", notification.Type,
			"recipient_id", notification.RecipientID.String(),
			"error", err,
		)
	}
}

// Setup builds the publisher and, when Kafka is enabled, the consumer that
// delivers emails. With Kafka disabled notifications are only logged.
func Setup(cfg *config.Config, resolver RecipientResolver) (Publisher, *Consumer, error) {
	log := logger.GetDefault().WithComponent("notifications")
	if !cfg.Kafka.Enabled {
		log.Info("📧 Kafka disabled, notifications will be logged only")
		return NewLogPublisher(), nil, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.Topic
	publisher, err := NewKafkaPublisher(producerConfig)
	if err != nil {
		return nil, nil, err
	}

	var email EmailService
	smtpConfig := NewSMTPConfig(cfg.Email)
	if smtpConfig.Validate() == nil {
		svc, err := NewSMTPEmailService(smtpConfig)
		if err != nil {
			_ = publisher.Close()
			return nil, nil, err
		}
		email = svc
	} else {
		log.Warn("📧 SMTP not configured, emails will be logged")
		email = NewLogEmailService()
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID
	consumerConfig.Topics = []string{cfg.Kafka.Topic}
	consumer, err := NewConsumer(consumerConfig, email, resolver)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, err
	}

	log.Info("✅ Notification pipeline ready", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return publisher, consumer, nil
}
