package services

import (
	"context"
	"sync"
	"time"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/state"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/logger"
	"gorm.io/gorm"
)

// MessageLister fetches all messages involving a user. Satisfied by the gorm
// implementation below; tests swap in a fake.
type MessageLister interface {
	ListMessages(ctx context.Context, userID string) ([]models.Message, error)
}

// GormMessageLister lists messages from the relational store.
type GormMessageLister struct {
	DB *gorm.DB
}

func (l *GormMessageLister) ListMessages(ctx context.Context, userID string) ([]models.Message, error) {
	var messages []models.Message
	err := l.DB.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

// UnreadTracker maintains, per user, the set of conversation counterparts
// with unread messages. The set is persisted through a state.Store so it
// survives restarts, and is only ever grown by polling; it shrinks solely
// through the explicit mark-read operations.
type UnreadTracker struct {
	store    state.Store
	messages MessageLister

	// Lookback bounds the first-ever check: with no persisted last-checked
	// timestamp, messages up to this far back still count as unread.
	lookback     time.Duration
	pollInterval time.Duration

	mu sync.Mutex // serializes merge/mark operations against the store

	pollMu  sync.Mutex
	pollers map[string]context.CancelFunc
}

const (
	defaultUnreadLookback = 30 * 24 * time.Hour
	defaultPollInterval   = 60 * time.Second
)

// UnreadTrackerOption configures an UnreadTracker.
type UnreadTrackerOption func(*UnreadTracker)

func WithLookback(d time.Duration) UnreadTrackerOption {
	return func(t *UnreadTracker) {
		if d > 0 {
			t.lookback = d
		}
	}
}

func WithPollInterval(d time.Duration) UnreadTrackerOption {
	return func(t *UnreadTracker) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

func NewUnreadTracker(store state.Store, messages MessageLister, opts ...UnreadTrackerOption) *UnreadTracker {
	t := &UnreadTracker{
		store:        store,
		messages:     messages,
		lookback:     defaultUnreadLookback,
		pollInterval: defaultPollInterval,
		pollers:      make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func unreadKey(userID string) string {
	return "unread:" + userID
}

func lastCheckedKey(userID string) string {
	return "unread:" + userID + ":last_checked"
}

// CheckUnreadMessages fetches the user's messages and unions the counterparts
// of messages newer than last-checked (and not authored by the user) into the
// persisted unread set. The set never shrinks here: a conversation the user
// just marked read between the fetch and the merge stays read because the
// merge re-reads the persisted set under the tracker lock.
func (t *UnreadTracker) CheckUnreadMessages(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	messages, err := t.messages.ListMessages(ctx, userID)
	if err != nil {
		// Existing state is untouched; the next poll tick retries.
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	lastChecked, err := t.loadLastChecked(ctx, userID)
	if err != nil {
		return err
	}

	incoming := make(map[string]bool)
	for _, msg := range messages {
		if msg.SenderID == userID {
			continue
		}
		if msg.CreatedAt.After(lastChecked) {
			incoming[msg.SenderID] = true
		}
	}

	// A failed read must abort the merge: writing only the freshly-computed
	// ids would shrink the persisted set.
	current, err := t.loadSet(ctx, userID)
	if err != nil {
		return err
	}
	for id := range current {
		incoming[id] = true
	}

	return t.saveSet(ctx, userID, incoming)
}

// MarkAllRead empties the unread set and advances last-checked to now. Used
// when the user opens the conversation list without selecting a conversation.
// Idempotent.
func (t *UnreadTracker) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Set(ctx, lastCheckedKey(userID), time.Now().Format(time.RFC3339Nano), 0); err != nil {
		return err
	}
	return t.saveSet(ctx, userID, map[string]bool{})
}

// MarkConversationRead removes exactly one counterpart from the unread set
// and advances last-checked to now. Used when the user opens a conversation.
func (t *UnreadTracker) MarkConversationRead(ctx context.Context, userID, counterpartID string) error {
	if userID == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	set, err := t.loadSet(ctx, userID)
	if err != nil {
		return err
	}
	delete(set, counterpartID)

	if err := t.saveSet(ctx, userID, set); err != nil {
		return err
	}
	return t.store.Set(ctx, lastCheckedKey(userID), time.Now().Format(time.RFC3339Nano), 0)
}

// Refresh forces an immediate check, for a manual refresh action.
func (t *UnreadTracker) Refresh(ctx context.Context, userID string) error {
	return t.CheckUnreadMessages(ctx, userID)
}

// UnreadConversations returns the counterpart ids with unread messages.
// Read-only: a store failure here yields an empty list without touching
// persisted state.
func (t *UnreadTracker) UnreadConversations(ctx context.Context, userID string) []string {
	if userID == "" {
		return []string{}
	}

	t.mu.Lock()
	set, _ := t.loadSet(ctx, userID)
	t.mu.Unlock()

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// UnreadCount returns the number of conversations with unread messages.
func (t *UnreadTracker) UnreadCount(ctx context.Context, userID string) int {
	return len(t.UnreadConversations(ctx, userID))
}

// Reset clears all persisted unread state for a user and stops their poller.
// Called on sign-out.
func (t *UnreadTracker) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	t.StopPolling(userID)

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Delete(ctx, unreadKey(userID), lastCheckedKey(userID))
}

// StartPolling launches a background poller for the user: one immediate check,
// then one per interval until StopPolling or ctx cancellation. Starting twice
// for the same user is a no-op.
func (t *UnreadTracker) StartPolling(ctx context.Context, userID string) {
	if userID == "" {
		return
	}

	t.pollMu.Lock()
	if _, running := t.pollers[userID]; running {
		t.pollMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	t.pollers[userID] = cancel
	t.pollMu.Unlock()

	go t.pollLoop(pollCtx, userID)
}

// StopPolling cancels the user's background poller if one is running.
func (t *UnreadTracker) StopPolling(userID string) {
	t.pollMu.Lock()
	defer t.pollMu.Unlock()

	if cancel, ok := t.pollers[userID]; ok {
		cancel()
		delete(t.pollers, userID)
	}
}

// StopAll cancels every poller. Called on shutdown.
func (t *UnreadTracker) StopAll() {
	t.pollMu.Lock()
	defer t.pollMu.Unlock()

	for userID, cancel := range t.pollers {
		cancel()
		delete(t.pollers, userID)
	}
}

func (t *UnreadTracker) pollLoop(ctx context.Context, userID string) {
	if err := t.CheckUnreadMessages(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Unread poll failed")
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.CheckUnreadMessages(ctx, userID); err != nil {
				// Background refresh: log and retry on the next tick.
				logger.Warn().Err(err).Str("user_id", userID).Msg("Unread poll failed")
			}
		}
	}
}

// loadLastChecked returns the persisted last-checked timestamp, seeding it to
// now minus the lookback window on first-ever use so a new session surfaces
// pre-existing unread history.
func (t *UnreadTracker) loadLastChecked(ctx context.Context, userID string) (time.Time, error) {
	var raw string
	err := t.store.Get(ctx, lastCheckedKey(userID), &raw)
	if err == nil {
		if ts, parseErr := time.Parse(time.RFC3339Nano, raw); parseErr == nil {
			return ts, nil
		}
	} else if err != state.ErrNotFound {
		return time.Time{}, err
	}

	seeded := time.Now().Add(-t.lookback)
	if err := t.store.Set(ctx, lastCheckedKey(userID), seeded.Format(time.RFC3339Nano), 0); err != nil {
		return time.Time{}, err
	}
	return seeded, nil
}

// loadSet reads the persisted unread set. Only a missing key counts as an
// empty set; any other store error is surfaced so callers do not overwrite
// state they could not read.
func (t *UnreadTracker) loadSet(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	if err := t.store.Get(ctx, unreadKey(userID), &ids); err != nil {
		if err == state.ErrNotFound {
			return map[string]bool{}, nil
		}
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (t *UnreadTracker) saveSet(ctx context.Context, userID string, set map[string]bool) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return t.store.Set(ctx, unreadKey(userID), ids, 0)
}
