package invitations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/notifications"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateInvitation(ctx context.Context, caller users.Identity, req CreateInvitationRequest) (*InvitationResponse, error)
	GetInvitation(ctx context.Context, caller users.Identity, id uuid.UUID) (*InvitationResponse, error)
	ListInvitations(ctx context.Context, caller users.Identity, query ListInvitationsQuery) (*PaginatedInvitations, error)
	InvitationQRCode(ctx context.Context, caller users.Identity, id uuid.UUID) (*File, error)
	InvitationDocument(ctx context.Context, caller users.Identity, id uuid.UUID) (*File, error)
	// Redeem admits the guest once: active -> used.
	Redeem(ctx context.Context, staff users.Identity, id uuid.UUID) (*Invitation, error)
}

// ArtifactIssuer is the artifact generator as used by invitations.
type ArtifactIssuer interface {
	Token(kind artifacts.Kind, id uuid.UUID) string
	Issue(ctx context.Context, s artifacts.Subject) (artifacts.Issued, error)
	Render(s artifacts.Subject) (artifacts.Rendered, error)
	Open(ctx context.Context, ref string) ([]byte, error)
	PurgeAll(ctx context.Context, refs ...string) error
}

type service struct {
	repo      Repository
	artifacts ArtifactIssuer
	notifier  notifications.Notifier
	apiBase   string
	now       func() time.Time
	log       *logger.Logger
}

func NewService(repo Repository, issuer ArtifactIssuer, notifier notifications.Notifier, apiBase string) Service {
	return &service{
		repo:      repo,
		artifacts: issuer,
		notifier:  notifier,
		apiBase:   apiBase,
		now:       time.Now,
		log:       logger.GetDefault().WithComponent("invitations"),
	}
}

func (s *service) CreateInvitation(ctx context.Context, caller users.Identity, req CreateInvitationRequest) (*InvitationResponse, error) {
	if !caller.HasRole(users.RoleProvider, users.RoleAdmin) {
		return nil, fmt.Errorf("create invitation: %w", apperrors.ErrForbidden)
	}

	payment := PaymentFree
	if req.PaymentStatus != "" {
		payment = PaymentStatus(req.PaymentStatus)
	}

	inv := &Invitation{
		ID:            uuid.New(),
		CreatorID:     caller.UserID,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		Title:         req.Title,
		Description:   req.Description,
		EventDate:     req.EventDate,
		Venue:         req.Venue,
		Status:        StatusActive,
		PaymentStatus: payment,
		CreatedAt:     s.now().UTC().Truncate(time.Second),
	}

	issued, err := s.artifacts.Issue(ctx, inv.Subject())
	if err != nil {
		return nil, err
	}
	inv.QRCodeRef = issued.QRCodeRef
	inv.DocumentRef = issued.DocumentRef

	if err := s.repo.Create(ctx, inv); err != nil {
		if perr := s.artifacts.PurgeAll(context.WithoutCancel(ctx), inv.ArtifactRefs()...); perr != nil {
			s.log.ErrorContext(ctx, "Failed to purge invitation artifacts", "invitation_id", inv.ID.String(), "error", perr)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "Invitation issued",
		"invitation_id", inv.ID.String(),
		"creator_id", caller.UserID.String(),
	)
	if s.notifier != nil {
		s.notifier.InvitationIssued(ctx, caller.UserID, inv.ID, inv.Title, inv.GuestName)
	}

	resp := inv.ToResponse(s.apiBase, issued.Token)
	return &resp, nil
}

func (s *service) GetInvitation(ctx context.Context, caller users.Identity, id uuid.UUID) (*InvitationResponse, error) {
	inv, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	resp := inv.ToResponse(s.apiBase, s.artifacts.Token(artifacts.KindInvitation, inv.ID))
	return &resp, nil
}

func (s *service) ListInvitations(ctx context.Context, caller users.Identity, query ListInvitationsQuery) (*PaginatedInvitations, error) {
	if !caller.HasRole(users.RoleProvider, users.RoleAdmin) {
		return nil, fmt.Errorf("list invitations: %w", apperrors.ErrForbidden)
	}
	query.Normalize()

	creator := caller.UserID
	if caller.IsAdmin() {
		creator = uuid.Nil
	}
	list, total, err := s.repo.List(ctx, creator, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]InvitationResponse, len(list))
	for i := range list {
		out[i] = list[i].ToResponse(s.apiBase, s.artifacts.Token(artifacts.KindInvitation, list[i].ID))
	}
	return &PaginatedInvitations{
		Invitations: out,
		TotalCount:  total,
		Page:        query.Page,
		Limit:       query.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(query.Limit))),
	}, nil
}

func (s *service) InvitationQRCode(ctx context.Context, caller users.Identity, id uuid.UUID) (*File, error) {
	inv, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	data, err := s.storedOrRendered(ctx, inv, inv.QRCodeRef, func(r artifacts.Rendered) []byte { return r.QRCode })
	if err != nil {
		return nil, err
	}
	return &File{Filename: "invitation-" + inv.ID.String() + ".png", ContentType: "image/png", Data: data}, nil
}

func (s *service) InvitationDocument(ctx context.Context, caller users.Identity, id uuid.UUID) (*File, error) {
	inv, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	data, err := s.storedOrRendered(ctx, inv, inv.DocumentRef, func(r artifacts.Rendered) []byte { return r.PDF })
	if err != nil {
		return nil, err
	}
	return &File{Filename: "invitation-" + inv.ID.String() + ".pdf", ContentType: "application/pdf", Data: data}, nil
}

func (s *service) Redeem(ctx context.Context, staff users.Identity, id uuid.UUID) (*Invitation, error) {
	if !staff.HasRole(users.RoleStaff, users.RoleAdmin) {
		return nil, fmt.Errorf("redeem invitation: %w", apperrors.ErrForbidden)
	}

	at := s.now().UTC()
	ok, err := s.repo.MarkUsed(ctx, id, staff.UserID, at)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		if cerr := inv.CheckRedeem(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("invitation %s: %w", id, apperrors.ErrInvalidTransition)
	}

	s.log.InfoContext(ctx, "Invitation redeemed",
		"invitation_id", id.String(),
		"staff_id", staff.UserID.String(),
	)
	return inv, nil
}

func (s *service) owned(ctx context.Context, caller users.Identity, id uuid.UUID) (*Invitation, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(inv.CreatorID) {
		return nil, fmt.Errorf("invitation %s: %w", id, apperrors.ErrForbidden)
	}
	return inv, nil
}

func (s *service) storedOrRendered(ctx context.Context, inv *Invitation, ref string, pick func(artifacts.Rendered) []byte) ([]byte, error) {
	if ref != "" {
		data, err := s.artifacts.Open(ctx, ref)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log.ErrorWithContext(ctx, "Failed to read stored artifact", err, map[string]interface{}{"ref": ref})
		}
	}
	rendered, err := s.artifacts.Render(inv.Subject())
	if err != nil {
		return nil, err
	}
	return pick(rendered), nil
}
