package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with ticketing specific helpers
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stdout
func New() *Logger {
	return NewWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter creates a logger writing to w at the given level name
func NewWithWriter(w io.Writer, levelName string) *Logger {
	level := getLogLevel(levelName)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text output while developing, JSON everywhere else
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

// WithUserID adds user ID to logger context
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("user_id", userID))}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// WithComponent tags every record with the emitting component
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", name))}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Ticket lifecycle

// LogTicketIssued logs a completed booking
func (l *Logger) LogTicketIssued(ctx context.Context, ticketID, eventID, buyerID, price, commission string) {
	l.Logger.InfoContext(ctx,
		"Ticket Issued",
		slog.String("ticket_id", ticketID),
		slog.String("event_id", eventID),
		slog.String("buyer_id", buyerID),
		slog.String("price", price),
		slog.String("commission", commission),
	)
}

// LogTicketRedeemed logs a successful verification
func (l *Logger) LogTicketRedeemed(ctx context.Context, ticketID, eventID, staffID string) {
	l.Logger.InfoContext(ctx,
		"Ticket Redeemed",
		slog.String("ticket_id", ticketID),
		slog.String("event_id", eventID),
		slog.String("staff_id", staffID),
	)
}

// LogRedemptionRejected logs a refused verification attempt
func (l *Logger) LogRedemptionRejected(ctx context.Context, subjectID, staffID string, reason error) {
	l.Logger.WarnContext(ctx,
		"Redemption Rejected",
		slog.String("subject_id", subjectID),
		slog.String("staff_id", staffID),
		slog.String("reason", reason.Error()),
	)
}

// LogTicketCancelled logs a post-sale cancellation
func (l *Logger) LogTicketCancelled(ctx context.Context, ticketID, eventID, userID string) {
	l.Logger.InfoContext(ctx,
		"Ticket Cancelled",
		slog.String("ticket_id", ticketID),
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)
}

// Inventory

// LogReservationReleased logs a compensating release after a failed booking
func (l *Logger) LogReservationReleased(ctx context.Context, eventID string, cause error) {
	l.Logger.WarnContext(ctx,
		"Reservation Released",
		slog.String("event_id", eventID),
		slog.String("cause", cause.Error()),
	)
}

// LogCapacityChanged logs a provider capacity edit
func (l *Logger) LogCapacityChanged(ctx context.Context, eventID string, total, available int) {
	l.Logger.InfoContext(ctx,
		"Event Capacity Changed",
		slog.String("event_id", eventID),
		slog.Int("total_tickets", total),
		slog.Int("tickets_available", available),
	)
}

// Events and artifacts

// LogEventCreated logs when an event is created
func (l *Logger) LogEventCreated(ctx context.Context, eventID, userID string) {
	l.Logger.InfoContext(ctx,
		"Event Created",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)
}

// LogEventDeleted logs the result of a two-phase event delete
func (l *Logger) LogEventDeleted(ctx context.Context, eventID string, tickets int, purged int, orphaned int) {
	l.Logger.InfoContext(ctx,
		"Event Deleted",
		slog.String("event_id", eventID),
		slog.Int("tickets_deleted", tickets),
		slog.Int("artifacts_purged", purged),
		slog.Int("artifacts_orphaned", orphaned),
	)
}

// LogArtifactPurgeFailed logs a stored artifact that could not be removed
func (l *Logger) LogArtifactPurgeFailed(ctx context.Context, ref string, err error) {
	l.Logger.ErrorContext(ctx,
		"Artifact Purge Failed",
		slog.String("ref", ref),
		slog.String("error", err.Error()),
	)
}

// Security

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// LogCacheOperation logs a cache hit, miss or failure at debug level
func (l *Logger) LogCacheOperation(ctx context.Context, op, key string, err error) {
	if err != nil {
		l.Logger.WarnContext(ctx, "Cache Operation Failed",
			slog.String("op", op),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Logger.DebugContext(ctx, "Cache Operation", slog.String("op", op), slog.String("key", key))
}

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.Logger.InfoContext(ctx, msg, fieldArgs(fields)...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := append([]interface{}{slog.String("error", err.Error())}, fieldArgs(fields)...)
	l.Logger.ErrorContext(ctx, msg, args...)
}

func fieldArgs(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return args
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
