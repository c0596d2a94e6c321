package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmail struct {
	mu       sync.Mutex
	sent     []*EmailNotification
	failures int
}

func (r *recordingEmail) SendNotification(_ context.Context, n *EmailNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, n)
	return nil
}

type userDirectory map[uuid.UUID]*users.User

func (d userDirectory) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func testHandler(email EmailService, resolver RecipientResolver) *ConsumerGroupHandler {
	logger.SetDefault(logger.Discard())
	cfg := DefaultConsumerConfig()
	cfg.RetryBackoffDuration = time.Millisecond
	return NewConsumerGroupHandler(cfg, email, resolver)
}

func message(t *testing.T, n *EmailNotification) *sarama.ConsumerMessage {
	t.Helper()
	data, err := n.ToJSON()
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "ticket-notifications", Value: data}
}

func TestProcessMessageResolvesRecipient(t *testing.T) {
	userID := uuid.New()
	email := &recordingEmail{failures: 2}
	h := testHandler(email, userDirectory{userID: {ID: userID, Email: "ada@example.com", FirstName: "Ada"}})

	n := NewNotificationBuilder().
		WithType(NotificationTypeTicketIssued).
		WithRecipient(userID, "", "").
		WithSubject("ticket").
		WithTemplateData(map[string]interface{}{"event_title": "Jazz Night", "confirmation_id": "TKT-1", "price": "100.00"}).
		Build()

	require.NoError(t, h.processMessage(context.Background(), message(t, n)))
	require.Len(t, email.sent, 1)
	assert.Equal(t, "ada@example.com", email.sent[0].RecipientEmail)
	assert.Equal(t, "Ada", email.sent[0].RecipientName)
	assert.Equal(t, NotificationStatusSent, email.sent[0].Status)
}

func TestProcessMessageGivesUpAfterRetries(t *testing.T) {
	email := &recordingEmail{failures: 10}
	h := testHandler(email, nil)

	n := NewNotificationBuilder().
		WithType(NotificationTypeTicketRedeemed).
		WithRecipient(uuid.New(), "x@example.com", "X").
		Build()

	err := h.processMessage(context.Background(), message(t, n))
	assert.Error(t, err)
	assert.Empty(t, email.sent)
}

func TestProcessMessageSkipsExpired(t *testing.T) {
	email := &recordingEmail{}
	h := testHandler(email, nil)

	past := time.Now().Add(-time.Minute)
	n := NewNotificationBuilder().
		WithType(NotificationTypeTicketCancelled).
		WithRecipient(uuid.New(), "x@example.com", "X").
		WithExpiration(&past).
		Build()

	require.NoError(t, h.processMessage(context.Background(), message(t, n)))
	assert.Empty(t, email.sent)
}

func TestProcessMessageRejectsGarbage(t *testing.T) {
	h := testHandler(&recordingEmail{}, nil)
	err := h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte("{")})
	assert.Error(t, err)
}

func TestRenderContent(t *testing.T) {
	n := NewNotificationBuilder().
		WithType(NotificationTypeTicketCancelled).
		WithRecipient(uuid.New(), "x@example.com", "Grace").
		WithTemplateData(map[string]interface{}{"event_title": "Opera", "confirmation_id": "TKT-9", "refund_amount": "40.00"}).
		Build()

	html, text, err := RenderContent(n)
	require.NoError(t, err)
	assert.Contains(t, html, "TKT-9")
	assert.Contains(t, text, "Hi Grace")
	assert.Contains(t, text, "Refund: 40.00")

	n.Type = "UNKNOWN"
	_, _, err = RenderContent(n)
	assert.Error(t, err)
}

func TestKafkaPublisherSendsKeyedMessage(t *testing.T) {
	logger.SetDefault(logger.Discard())
	producer := mocks.NewSyncProducer(t, nil)
	recipient := uuid.New()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var n EmailNotification
		if err := json.Unmarshal(val, &n); err != nil {
			return err
		}
		if n.RecipientID != recipient || n.Status != NotificationStatusQueued {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := newKafkaPublisher(producer, DefaultKafkaProducerConfig())
	notifier := NewNotifier(p)
	notifier.TicketIssued(context.Background(), TicketMessage{
		TicketID:    uuid.New(),
		EventID:     uuid.New(),
		RecipientID: recipient,
		EventTitle:  "Jazz Night",
	})

	require.NoError(t, p.Close())
}
