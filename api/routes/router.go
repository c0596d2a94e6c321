// api/routes/router.go
package routes

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	_ "ticketflow/docs"
	"ticketflow/internal/analytics"
	"ticketflow/internal/artifacts"
	"ticketflow/internal/bookings"
	"ticketflow/internal/cancellation"
	"ticketflow/internal/commission"
	"ticketflow/internal/events"
	"ticketflow/internal/inventory"
	"ticketflow/internal/invitations"
	"ticketflow/internal/money"
	"ticketflow/internal/notifications"
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/database"
	"ticketflow/internal/shared/dbtx"
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/tickets"
	"ticketflow/internal/users"
	"ticketflow/internal/verification"
	"ticketflow/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// cacheAware services accept the Redis cache after construction
type cacheAware interface {
	SetCacheService(cache.Service)
}

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes builds the services and registers every route on engine.
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	r.setupHealthRoutes(engine)

	cfg := r.config
	pg := r.db.PostgreSQL
	tx := dbtx.NewTransactor(pg)
	cacheService := cache.NewService(r.db.Redis)
	auth := middleware.JWTAuthWithConfig(cfg)

	generator, err := newArtifactGenerator(cfg)
	if err != nil {
		return err
	}

	defaultRate, err := money.NewStaticRate(cfg.Commission.DefaultPercent)
	if err != nil {
		return fmt.Errorf("commission config: %w", err)
	}
	rates := money.NewRedisRateSource(r.db.Redis, cfg.Commission.OverrideKey, defaultRate)

	apiBase := strings.TrimSuffix(cfg.Artifacts.BaseURL, "/") + cfg.GetAPIBasePath()

	userRepo := users.NewRepository(pg)
	eventRepo := events.NewRepository(pg)
	ticketRepo := tickets.NewRepository(pg)
	notifier := notifications.NewNotifier(r.publisher)

	// Cached event views follow every ledger change
	var eventService events.Service
	ledger := inventory.NewLedger(inventory.NewGormStore(pg),
		inventory.WithObserver(func(ctx context.Context, c inventory.Capacity) {
			eventService.InvalidateCapacity(ctx, c)
		}))
	eventService = events.NewService(eventRepo, ledger, generator, tx)

	bookingService := bookings.NewService(bookings.Dependencies{
		Ledger:   ledger,
		Events:   eventRepo,
		Users:    userRepo,
		Rates:    rates,
		Issuer:   generator,
		Tickets:  ticketRepo,
		Notifier: notifier,
		APIBase:  apiBase,
	})
	ticketService := tickets.NewService(ticketRepo, eventRepo, userRepo, generator, apiBase)
	invitationService := invitations.NewService(invitations.NewRepository(pg), generator, notifier, apiBase)
	verificationService := verification.NewService(ticketRepo, generator, invitationService, notifier,
		verification.Options{RequireSignedTokens: cfg.Artifacts.RequireSignedTokens})
	cancellationService := cancellation.NewService(cancellation.NewRepository(pg), ticketRepo, ledger, tx, notifier)
	analyticsService := analytics.NewService(analytics.NewRepository(pg))
	commissionService := commission.NewService(rates, defaultRate)

	for _, svc := range []interface{}{eventService, analyticsService} {
		if ca, ok := svc.(cacheAware); ok {
			ca.SetCacheService(cacheService)
		}
	}

	api := engine.Group(cfg.GetAPIBasePath())
	{
		events.SetupEventRoutes(api, events.NewController(eventService), auth)
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService), auth)
		tickets.SetupTicketRoutes(api, tickets.NewController(ticketService), auth)
		cancellation.SetupCancellationRoutes(api, cancellation.NewController(cancellationService), auth)
		verification.SetupVerificationRoutes(api, verification.NewController(verificationService), auth)
		invitations.SetupInvitationRoutes(api, invitations.NewController(invitationService), auth)
		analytics.SetupAnalyticsRoutes(api, analytics.NewController(analyticsService), auth)
		commission.SetupCommissionRoutes(api, commission.NewController(commissionService), auth)
	}
	return nil
}

func newArtifactGenerator(cfg *config.Config) (*artifacts.Generator, error) {
	signer, err := artifacts.NewSigner(cfg.Artifacts.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("artifact signer: %w", err)
	}
	store, err := artifacts.NewDiskStore(cfg.Artifacts.Path)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}
	return artifacts.NewGenerator(signer, store, artifacts.Options{
		QRCodeSize:         cfg.Artifacts.QRCodeSize,
		DefaultDescription: cfg.Artifacts.DefaultEventDescription,
	}), nil
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketflow",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketflow",
		})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
