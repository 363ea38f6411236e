package lockout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/requestcontext"
)

// Store persists lockout records. Stores hold no policy: the service passes
// the window cut-offs in.
type Store interface {
	Get(ctx context.Context, identifier string) (*Record, error)
	// RecordFailure increments both counters, restarting a counter whose last
	// failure is older than its cut-off.
	RecordFailure(ctx context.Context, identifier string, now, windowCutoff, dayCutoff time.Time) (*Record, error)
	SetLockedUntil(ctx context.Context, identifier string, until time.Time) error
	ClearWindow(ctx context.Context, identifier string) error
}

type Service struct {
	store  Store
	config Config
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth lockout store is required")
	}
	s := &Service{store: store, config: DefaultConfig(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check refuses the attempt with a *LockedError (wrapped as too_many_requests)
// while the key is hard locked or has used up its window.
func (s *Service) Check(ctx context.Context, username, ip string) error {
	record, err := s.store.Get(ctx, Key(username, ip))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to get auth lockout record")
	}
	if record == nil {
		return nil
	}
	now := requestcontext.Now(ctx)

	if record.IsLockedAt(now) {
		return locked(&LockedError{RetryAfter: record.LockedUntil.Sub(now), HardLock: true})
	}
	if record.WindowFailures(now, s.config.WindowDuration) >= s.config.AttemptsPerWindow {
		resetAt := record.LastFailureAt.Add(s.config.WindowDuration)
		return locked(&LockedError{RetryAfter: resetAt.Sub(now)})
	}
	return nil
}

// RecordFailure counts a failed login and applies the hard lock once the
// daily threshold is reached. It reports whether a hard lock was applied.
func (s *Service) RecordFailure(ctx context.Context, username, ip string) (bool, error) {
	key := Key(username, ip)
	now := requestcontext.Now(ctx)
	record, err := s.store.RecordFailure(ctx, key, now,
		now.Add(-s.config.WindowDuration), now.Add(-s.config.DailyWindow))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record auth failure")
	}
	if record.IsLockedAt(now) || record.DailyFailures < s.config.HardLockThreshold {
		return false, nil
	}

	until := now.Add(s.config.HardLockDuration)
	if err := s.store.SetLockedUntil(ctx, key, until); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply auth lockout")
	}
	s.logger.WarnContext(ctx, "login hard lock applied",
		"request_id", requestcontext.RequestID(ctx),
		"username", username,
		"locked_until", until,
	)
	return true, nil
}

// Clear resets the window counter after a successful login.
func (s *Service) Clear(ctx context.Context, username, ip string) error {
	if err := s.store.ClearWindow(ctx, Key(username, ip)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear auth failures")
	}
	return nil
}

func locked(e *LockedError) error {
	return dErrors.Wrap(e, dErrors.CodeTooManyRequests, e.Error())
}
