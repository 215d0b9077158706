package security

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store"
)

var _ store.SecurityLog = (*Log)(nil)

// Event names.
const (
	EventMissingToken         = "missing_token"
	EventInvalidFormat        = "invalid_format"
	EventInvalidToken         = "invalid_token"
	EventTokenOK              = "token_ok"
	EventRegisterTokenMissing = "register_token_missing"
	EventRegisterTokenOK      = "register_token_ok"
	EventProductCreated       = "product_created"
	EventOrderCreated         = "order_created"
)

// Publisher forwards events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event domain.SecurityEvent) error
}

// Log is the append-only security log. Events are kept in memory and, when
// a Publisher is set, forwarded to it. A failed publish is logged and the
// event is still kept.
type Log struct {
	mu     sync.RWMutex
	events []domain.SecurityEvent

	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewLog returns an empty log. publisher may be nil.
func NewLog(publisher Publisher, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{publisher: publisher, logger: logger, now: time.Now}
}

// Append records event with a copy of details and returns the stored entry.
func (l *Log) Append(ctx context.Context, event string, details map[string]any) domain.SecurityEvent {
	entry := domain.SecurityEvent{
		Timestamp: l.now().UTC(),
		Event:     event,
		Details:   maps.Clone(details),
	}
	if entry.Details == nil {
		entry.Details = map[string]any{}
	}

	l.mu.Lock()
	l.events = append(l.events, entry)
	l.mu.Unlock()

	if l.publisher != nil {
		if err := l.publisher.Publish(ctx, entry); err != nil {
			l.logger.WarnContext(ctx, "failed to publish security event", "event", event, "error", err)
		}
	}
	return entry
}

// Events returns a snapshot of every event in append order.
func (l *Log) Events() []domain.SecurityEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.events)
}
