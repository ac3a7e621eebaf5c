package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/indrastratagem/thunderbolt/storage"
)

const (
	// DefaultKey is the slot subscribers are persisted under.
	DefaultKey = "blog_newsletter_subscribers"
	// DefaultDelay mimics a network round trip before a signup resolves.
	DefaultDelay = 800 * time.Millisecond
	// DefaultSource tags signups that do not say where they came from.
	DefaultSource = "homepage"
)

// Store mediates signups against a persisted subscriber list.
type Store struct {
	slot  storage.Slot
	key   string
	delay time.Duration
	now   func() time.Time
	log   zerolog.Logger

	// mu serializes read-modify-write of the slot so two concurrent signups
	// for the same address cannot both pass the duplicate check.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithDelay sets the artificial latency of Subscribe. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithKey sets the slot key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides time.Now for subscription timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for subscription events and slot read failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns a Store persisting to slot.
func NewStore(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		key:   DefaultKey,
		delay: DefaultDelay,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe validates email, rejects addresses already on the list
// (case-insensitively) and otherwise appends a new subscriber. Rejections are
// reported in the Result; the error is non-nil only when persisting fails.
//
// The caller is expected to trim email. Subscribe runs to completion even if
// ctx is cancelled while it waits.
func (s *Store) Subscribe(ctx context.Context, email, source string) (Result, error) {
	ctx = context.WithoutCancel(ctx)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	if !ValidEmail(email) {
		return Result{Success: false, Message: MsgInvalidEmail}, nil
	}
	if source == "" {
		source = DefaultSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.load(ctx)
	if slices.ContainsFunc(subs, func(sub Subscriber) bool { return sameEmail(sub.Email, email) }) {
		return Result{Success: false, Message: MsgDuplicate}, nil
	}

	sub := Subscriber{
		ID:           newID(s.now()),
		Email:        strings.ToLower(email),
		SubscribedAt: s.now().UTC().Truncate(time.Millisecond),
		Source:       source,
	}
	if err := s.save(ctx, append(subs, sub)); err != nil {
		return Result{}, err
	}
	s.log.Info().Str("source", source).Str("id", sub.ID).Msg("newsletter signup")
	return Result{Success: true, Message: MsgWelcome}, nil
}

// Count returns the number of subscribers.
func (s *Store) Count(ctx context.Context) int {
	return len(s.load(ctx))
}

// List returns every subscriber in signup order.
func (s *Store) List(ctx context.Context) []Subscriber {
	return s.load(ctx)
}

// Unsubscribe removes the first subscriber whose email matches
// case-insensitively. It reports whether one was removed and persists only
// in that case.
func (s *Store) Unsubscribe(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.load(ctx)
	i := slices.IndexFunc(subs, func(sub Subscriber) bool { return sameEmail(sub.Email, email) })
	if i < 0 {
		return false, nil
	}
	id := subs[i].ID
	if err := s.save(ctx, slices.Delete(subs, i, i+1)); err != nil {
		return false, err
	}
	s.log.Info().Str("id", id).Msg("newsletter unsubscribe")
	return true, nil
}

// load reads the list. A missing or unreadable slot is an empty list.
func (s *Store) load(ctx context.Context) []Subscriber {
	data, err := s.slot.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Msg("subscriber list unreadable, treating as empty")
		}
		return []Subscriber{}
	}
	var subs []Subscriber
	if err := json.Unmarshal(data, &subs); err != nil {
		s.log.Warn().Err(err).Msg("subscriber list corrupt, treating as empty")
		return []Subscriber{}
	}
	if subs == nil {
		subs = []Subscriber{}
	}
	return subs
}

func (s *Store) save(ctx context.Context, subs []Subscriber) error {
	data, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("newsletter: encode subscribers: %w", err)
	}
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("newsletter: save subscribers: %w", err)
	}
	return nil
}

// newID returns sub_<unix-millis>_<7 random hex chars>.
func newID(now time.Time) string {
	return fmt.Sprintf("sub_%d_%s", now.UnixMilli(), uuid.NewString()[:7])
}
