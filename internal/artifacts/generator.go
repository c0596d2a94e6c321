// Package artifacts produces the redemption artifacts of tickets and
// invitations: a signed token, its QR image and a printable PDF document.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

// Issued holds the token and stored blob references of one subject.
type Issued struct {
	Token       string
	QRCodeRef   string
	DocumentRef string
}

// Rendered is an artifact set built in memory.
type Rendered struct {
	Token    string
	QRCode   []byte
	PDF      []byte
	Document Document
}

type Options struct {
	QRCodeSize         int
	DefaultDescription string
	Now                func() time.Time
}

type Generator struct {
	signer *Signer
	store  Store
	opts   Options
	log    *logger.Logger
}

func NewGenerator(signer *Signer, store Store, opts Options) *Generator {
	if opts.QRCodeSize <= 0 {
		opts.QRCodeSize = defaultQRSize
	}
	if opts.DefaultDescription == "" {
		opts.DefaultDescription = DefaultDescription
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{signer: signer, store: store, opts: opts, log: logger.GetDefault()}
}

// Token returns the redemption token of a subject.
func (g *Generator) Token(kind Kind, id uuid.UUID) string {
	return g.signer.Sign(kind, id)
}

// ParseToken validates a scanned token.
func (g *Generator) ParseToken(token string) (Kind, uuid.UUID, error) {
	return g.signer.Parse(token)
}

// Render builds the artifacts of s without storing anything.
func (g *Generator) Render(s Subject) (Rendered, error) {
	if s.ID == uuid.Nil {
		return Rendered{}, fmt.Errorf("%w: subject id is required", apperrors.ErrArtifact)
	}
	if s.Kind == "" {
		s.Kind = KindTicket
	}

	token := g.signer.Sign(s.Kind, s.ID)
	doc, err := BuildDocument(s, token, g.opts.DefaultDescription)
	if err != nil {
		return Rendered{}, err
	}
	png, err := EncodeQR(token, g.opts.QRCodeSize)
	if err != nil {
		return Rendered{}, err
	}
	pdf, err := RenderPDF(doc, png)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Token: token, QRCode: png, PDF: pdf, Document: doc}, nil
}

// Issue renders the artifacts of s and stores both blobs. On failure nothing
// is left in the store and the error wraps apperrors.ErrArtifact.
func (g *Generator) Issue(ctx context.Context, s Subject) (Issued, error) {
	if s.IssuedAt.IsZero() {
		s.IssuedAt = g.opts.Now()
	}
	r, err := g.Render(s)
	if err != nil {
		return Issued{}, err
	}

	qrKey, docKey := blobKeys(s.Kind, s.ID)
	qrRef, err := g.store.Put(ctx, qrKey, r.QRCode)
	if err != nil {
		return Issued{}, fmt.Errorf("%w: store qr code: %w", apperrors.ErrArtifact, err)
	}
	docRef, err := g.store.Put(ctx, docKey, r.PDF)
	if err != nil {
		if derr := g.store.Delete(ctx, qrRef); derr != nil {
			g.log.LogArtifactPurgeFailed(ctx, qrRef, derr)
		}
		return Issued{}, fmt.Errorf("%w: store document: %w", apperrors.ErrArtifact, err)
	}

	return Issued{Token: r.Token, QRCodeRef: qrRef, DocumentRef: docRef}, nil
}

// Open reads a stored blob.
func (g *Generator) Open(ctx context.Context, ref string) ([]byte, error) {
	return g.store.Get(ctx, ref)
}

// Purge deletes refs and returns those that could not be deleted.
func (g *Generator) Purge(ctx context.Context, refs []string) map[string]error {
	failed := make(map[string]error)
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := g.store.Delete(ctx, ref); err != nil {
			failed[ref] = err
		}
	}
	return failed
}

// PurgeAll is Purge returning a joined error, for callers that only log.
func (g *Generator) PurgeAll(ctx context.Context, refs ...string) error {
	var errs []error
	for ref, err := range g.Purge(ctx, refs) {
		errs = append(errs, fmt.Errorf("%s: %w", ref, err))
	}
	return errors.Join(errs...)
}

func blobKeys(kind Kind, id uuid.UUID) (qr, doc string) {
	switch kind {
	case KindInvitation:
		return "invitations/" + id.String() + "/qr.png", "invitations/" + id.String() + "/invitation.pdf"
	default:
		return "tickets/" + id.String() + "/qr.png", "tickets/" + id.String() + "/ticket.pdf"
	}
}
