package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// contextExtractor pulls a string value out of the request context.
type contextExtractor func(ctx context.Context) (string, bool)

// Logger records administrative actions into an audit trail.
type Logger struct {
	storage           Storage
	tenantIDExtractor contextExtractor
	userIDExtractor   contextExtractor
}

// Option configures a Logger.
type Option func(*Logger)

// WithTenantIDExtractor sets the function used to derive the tenant id
// from context when an event does not carry one explicitly.
func WithTenantIDExtractor(fn func(ctx context.Context) (string, bool)) Option {
	return func(l *Logger) { l.tenantIDExtractor = fn }
}

// WithUserIDExtractor sets the function used to derive the acting user
// id from context.
func WithUserIDExtractor(fn func(ctx context.Context) (string, bool)) Option {
	return func(l *Logger) { l.userIDExtractor = fn }
}

// NewLogger creates an audit logger backed by the given storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{storage: storage}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now().UTC()
	event.Action = action
	event.Result = ResultSuccess

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	if err := l.storage.Store(ctx, event); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

// LogError records a failed action.
func (l *Logger) LogError(ctx context.Context, action string, actionErr error, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now().UTC()
	event.Action = action
	event.Result = ResultError
	if actionErr != nil {
		event.Error = actionErr.Error()
	}

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	if err := l.storage.Store(ctx, event); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (l *Logger) eventFromContext(ctx context.Context) Event {
	var event Event

	if l.tenantIDExtractor != nil {
		if tenantID, ok := l.tenantIDExtractor(ctx); ok {
			event.TenantID = tenantID
		}
	}
	if l.userIDExtractor != nil {
		if userID, ok := l.userIDExtractor(ctx); ok {
			event.UserID = userID
		}
	}
	return event
}
