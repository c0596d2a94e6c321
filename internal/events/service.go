package events

import (
	"context"
	"fmt"
	"math"

	"ticketflow/internal/inventory"
	"ticketflow/internal/money"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/constants"
	"ticketflow/internal/shared/dbtx"
	"ticketflow/internal/users"
	"ticketflow/pkg/cache"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateEvent(ctx context.Context, caller users.Identity, req CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	ListProviderEvents(ctx context.Context, caller users.Identity, query EventListQuery) (*PaginatedEvents, error)
	UpdateEvent(ctx context.Context, caller users.Identity, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, caller users.Identity, id uuid.UUID) (*DeleteEventResult, error)

	// InvalidateCapacity drops cached views of an event after a ledger change.
	InvalidateCapacity(ctx context.Context, c inventory.Capacity)
}

// CapacityManager is the part of the inventory ledger used for provider edits.
type CapacityManager interface {
	Resize(ctx context.Context, eventID uuid.UUID, newTotal int) (inventory.Capacity, error)
}

// ArtifactPurger removes stored ticket artifacts and returns the refs it could not delete.
type ArtifactPurger interface {
	Purge(ctx context.Context, refs []string) map[string]error
}

type service struct {
	repo   Repository
	ledger CapacityManager
	purger ArtifactPurger
	tx     dbtx.Transactor
	cache  cache.Service
	log    *logger.Logger
}

func NewService(repo Repository, ledger CapacityManager, purger ArtifactPurger, tx dbtx.Transactor) Service {
	return &service{
		repo:   repo,
		ledger: ledger,
		purger: purger,
		tx:     tx,
		log:    logger.GetDefault(),
	}
}

// SetCacheService enables the Redis read cache
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cache = cacheService
}

// CacheAware is implemented by services that accept a cache after construction.
type CacheAware interface {
	SetCacheService(cache.Service)
}

func (s *service) CreateEvent(ctx context.Context, caller users.Identity, req CreateEventRequest) (*EventResponse, error) {
	if !caller.HasRole(users.RoleProvider, users.RoleAdmin) {
		return nil, fmt.Errorf("create event: %w", apperrors.ErrForbidden)
	}

	price, err := money.ParsePrice(req.TicketPrice)
	if err != nil {
		return nil, err
	}
	if req.TotalTickets < 0 {
		return nil, fmt.Errorf("total tickets %d: %w", req.TotalTickets, apperrors.ErrInvalidCapacity)
	}

	event := &Event{
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Venue:            req.Venue,
		TicketPrice:      price.Round(money.MinorUnitPlaces),
		TotalTickets:     req.TotalTickets,
		TicketsAvailable: req.TotalTickets,
		IsHot:            req.IsHot,
		ImageURL:         req.ImageURL,
		ProviderID:       caller.UserID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.LogEventCreated(ctx, event.ID.String(), caller.UserID.String())
	s.invalidateLists(ctx)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	load := func() (interface{}, error) {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return event.ToResponse(), nil
	}

	if s.cache == nil {
		v, err := load()
		if err != nil {
			return nil, err
		}
		resp := v.(EventResponse)
		return &resp, nil
	}

	var resp EventResponse
	if err := s.cache.GetOrSet(ctx, constants.BuildEventDetailKey(id.String()), constants.TTL_EVENT_DETAIL, load, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	query.normalize()
	query.ProviderID = ""

	if s.cache == nil {
		return s.list(ctx, query)
	}

	var page PaginatedEvents
	key := constants.BuildEventListKey(query.Page, query.Limit, query.Search)
	if query.HotOnly {
		key += ":hot"
	}
	err := s.cache.GetOrSet(ctx, key, constants.TTL_EVENT_LIST, func() (interface{}, error) {
		return s.list(ctx, query)
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *service) ListProviderEvents(ctx context.Context, caller users.Identity, query EventListQuery) (*PaginatedEvents, error) {
	if !caller.HasRole(users.RoleProvider, users.RoleAdmin) {
		return nil, fmt.Errorf("list provider events: %w", apperrors.ErrForbidden)
	}
	query.normalize()
	query.ProviderID = caller.UserID.String()
	return s.list(ctx, query)
}

func (s *service) list(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	events, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = events[i].ToResponse()
	}

	return &PaginatedEvents{
		Events:     out,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}, nil
}

func (s *service) UpdateEvent(ctx context.Context, caller users.Identity, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(event.ProviderID) {
		return nil, fmt.Errorf("update event %s: %w", id, apperrors.ErrForbidden)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.IsHot != nil {
		updates["is_hot"] = *req.IsHot
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.TicketPrice != nil {
		price, err := money.ParsePrice(*req.TicketPrice)
		if err != nil {
			return nil, err
		}
		updates["ticket_price"] = price.Round(money.MinorUnitPlaces)
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if req.TotalTickets != nil {
			if _, err := s.ledger.Resize(ctx, id, *req.TotalTickets); err != nil {
				return err
			}
		}
		return s.repo.UpdateDetails(ctx, id, updates)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateEvent(ctx, id)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

// DeleteEvent removes an event in two phases: records (event and tickets)
// go in one transaction, then the stored artifacts of those tickets are
// purged. Purge failures do not undo the delete; they are logged and listed
// in the result.
func (s *service) DeleteEvent(ctx context.Context, caller users.Identity, id uuid.UUID) (*DeleteEventResult, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(event.ProviderID) {
		return nil, fmt.Errorf("delete event %s: %w", id, apperrors.ErrForbidden)
	}

	refs, deleted, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateEvent(ctx, id)

	result := &DeleteEventResult{EventID: id.String(), TicketsDeleted: deleted}
	if len(refs) > 0 && s.purger != nil {
		failed := s.purger.Purge(ctx, refs)
		for ref, perr := range failed {
			s.log.LogArtifactPurgeFailed(ctx, ref, perr)
			result.OrphanedArtifacts = append(result.OrphanedArtifacts, ref)
		}
		result.ArtifactsPurged = len(refs) - len(failed)
	}

	s.log.LogEventDeleted(ctx, id.String(), int(deleted), result.ArtifactsPurged, len(result.OrphanedArtifacts))
	return result, nil
}

func (s *service) InvalidateCapacity(ctx context.Context, c inventory.Capacity) {
	s.invalidateEvent(ctx, c.EventID)
}

func (s *service) invalidateEvent(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := constants.BuildEventDetailKey(id.String())
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.LogCacheOperation(ctx, "delete", key, err)
	}
	s.invalidateLists(ctx)
}

func (s *service) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_LISTS); err != nil {
		s.log.LogCacheOperation(ctx, "delete_pattern", constants.PATTERN_INVALIDATE_EVENT_LISTS, err)
	}
}
