package artifacts

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner("test-signing-key")
	require.NoError(t, err)
	return s
}

func TestSignerRoundTrip(t *testing.T) {
	s := newSigner(t)
	id := uuid.New()

	token := s.Sign(KindTicket, id)
	assert.True(t, strings.HasPrefix(token, "tf1.t."))
	assert.NotContains(t, token, id.String())

	kind, got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, KindTicket, kind)
	assert.Equal(t, id, got)
}

func TestSignerRejects(t *testing.T) {
	s := newSigner(t)
	id := uuid.New()
	valid := s.Sign(KindTicket, id)
	parts := strings.Split(valid, ".")

	swapped := uuid.New()
	otherKey, err := NewSigner("another-key")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"raw uuid", id.String()},
		{"wrong version", "tf0." + strings.Join(parts[1:], ".")},
		{"unknown kind", strings.Join([]string{parts[0], "x", parts[2], parts[3]}, ".")},
		{"kind swapped", strings.Join([]string{parts[0], "i", parts[2], parts[3]}, ".")},
		{"id swapped", strings.Join([]string{parts[0], parts[1], b64.EncodeToString(swapped[:]), parts[3]}, ".")},
		{"forged mac", strings.Join([]string{parts[0], parts[1], parts[2], b64.EncodeToString(make([]byte, macSize))}, ".")},
		{"other key", otherKey.Sign(KindTicket, id)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Parse(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestNewSignerRequiresKey(t *testing.T) {
	_, err := NewSigner("")
	assert.Error(t, err)

	long, err := NewSigner(strings.Repeat("k", 200))
	require.NoError(t, err)
	_, _, err = long.Parse(long.Sign(KindInvitation, uuid.New()))
	assert.NoError(t, err)
}

func subject() Subject {
	date := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	return Subject{
		Kind:           KindTicket,
		ID:             uuid.MustParse("2f1c9a7e-5d7b-4f59-9a3e-8c1b0e6d4a21"),
		ConfirmationID: "TKT-2F1C9A7E-20260101",
		HolderName:     "Ada Lovelace",
		Price:          "100.00",
		Event: EventInfo{
			Title:       "Jazz Night",
			Description: "Live quartet",
			Venue:       "Blue Hall",
			Date:        &date,
		},
		IssuedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildDocumentPlaceholders(t *testing.T) {
	s := subject()
	s.Event = EventInfo{Title: "Jazz Night"}

	doc, err := BuildTicketDocument(s, "tok", "")
	require.NoError(t, err)
	assert.Equal(t, "TBA", doc.Venue)
	assert.Equal(t, "TBA", doc.Date)
	assert.Equal(t, DefaultDescription, doc.Description)
	assert.Equal(t, "TicketFlow Ticket", doc.Heading)

	doc, err = BuildInvitationDocument(s, "tok", "Custom default")
	require.NoError(t, err)
	assert.Equal(t, "Custom default", doc.Description)
	assert.Equal(t, "TicketFlow Invitation", doc.Heading)
}

func TestBuildDocumentRequiresTitle(t *testing.T) {
	s := subject()
	s.Event.Title = "   "
	_, err := BuildDocument(s, "tok", "")
	assert.ErrorIs(t, err, apperrors.ErrArtifact)
}

func TestBuildDocumentFormatsDate(t *testing.T) {
	doc, err := BuildDocument(subject(), "tok", "")
	require.NoError(t, err)
	assert.Equal(t, "Saturday, 14 March 2026 at 07:30 PM", doc.Date)
}

func TestRenderIsDeterministic(t *testing.T) {
	g := NewGenerator(newSigner(t), NewMemoryStore(), Options{})

	first, err := g.Render(subject())
	require.NoError(t, err)
	second, err := g.Render(subject())
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, first.Document, second.Document)
	assert.Equal(t, first.QRCode, second.QRCode)
	assert.True(t, bytes.Equal(first.PDF, second.PDF))
	assert.True(t, bytes.HasPrefix(first.PDF, []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(first.QRCode, []byte("\x89PNG")))
}

func TestIssueStoresBlobs(t *testing.T) {
	store := NewMemoryStore()
	g := NewGenerator(newSigner(t), store, Options{})
	s := subject()

	issued, err := g.Issue(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "tickets/"+s.ID.String()+"/qr.png", issued.QRCodeRef)
	assert.Equal(t, "tickets/"+s.ID.String()+"/ticket.pdf", issued.DocumentRef)
	assert.Equal(t, 2, store.Len())

	data, err := g.Open(context.Background(), issued.DocumentRef)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	failed := g.Purge(context.Background(), []string{issued.QRCodeRef, issued.DocumentRef})
	assert.Empty(t, failed)
	assert.Equal(t, 0, store.Len())
}

func TestIssueCleansUpOnFailure(t *testing.T) {
	store := NewMemoryStore()
	store.FailPut = func(key string) error {
		if strings.HasSuffix(key, ".pdf") {
			return errors.New("disk full")
		}
		return nil
	}
	g := NewGenerator(newSigner(t), store, Options{})

	_, err := g.Issue(context.Background(), subject())
	require.ErrorIs(t, err, apperrors.ErrArtifact)
	assert.Equal(t, 0, store.Len())
}

func TestIssueMissingTitle(t *testing.T) {
	store := NewMemoryStore()
	g := NewGenerator(newSigner(t), store, Options{})
	s := subject()
	s.Event.Title = ""

	_, err := g.Issue(context.Background(), s)
	require.ErrorIs(t, err, apperrors.ErrArtifact)
	assert.Equal(t, 0, store.Len())
}

func TestPurgeReportsFailures(t *testing.T) {
	store := NewMemoryStore()
	store.FailDelete = func(ref string) error {
		if ref == "b" {
			return errors.New("permission denied")
		}
		return nil
	}
	g := NewGenerator(newSigner(t), store, Options{})

	failed := g.Purge(context.Background(), []string{"a", "b", ""})
	assert.Len(t, failed, 1)
	assert.Contains(t, failed, "b")
	assert.Error(t, g.PurgeAll(context.Background(), "b"))
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Put(ctx, "tickets/abc/qr.png", []byte("png"))
	require.NoError(t, err)

	data, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, store.Delete(ctx, ref))
	require.NoError(t, store.Delete(ctx, ref))

	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = store.Put(ctx, "../escape", []byte("x"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
