package coupon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"bloodconnect/internal/coupon/metrics"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/tx"
)

// DefaultMaxAttempts bounds allocation retries when no option overrides it.
const DefaultMaxAttempts = 5

// previewTimeout bounds the shared store read behind Preview.
const previewTimeout = 5 * time.Second

var tracer = otel.Tracer("bloodconnect/internal/coupon")

// MaxSource reports the numeric maximum of the issued codes. Non-numeric codes
// are ignored; an empty store reports 0. When called with a transactional
// context it must read inside that transaction.
type MaxSource interface {
	MaxNumericCode(ctx context.Context) (int64, error)
}

// CommitFunc persists the owner of code inside the allocation transaction.
// It returns ErrCodeTaken (possibly wrapped) when storage rejects code as a
// duplicate.
type CommitFunc func(ctx context.Context, code Code) error

// Allocator hands out coupon codes and commits them atomically with their owner.
type Allocator struct {
	source      MaxSource
	tx          tx.Runner
	maxAttempts int
	logger      *slog.Logger
	metrics     *metrics.Metrics
	preview     singleflight.Group
}

// Option configures an Allocator.
type Option func(*Allocator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Allocator) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Allocator) {
		a.metrics = m
	}
}

// WithMaxAttempts sets the retry budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n >= 1 {
			a.maxAttempts = n
		}
	}
}

// NewAllocator builds an allocator reading the maximum from source and running
// each attempt through runner.
func NewAllocator(source MaxSource, runner tx.Runner, opts ...Option) (*Allocator, error) {
	if source == nil {
		return nil, errors.New("coupon max source is required")
	}
	if runner == nil {
		return nil, errors.New("transaction runner is required")
	}
	a := &Allocator{
		source:      source,
		tx:          runner,
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Allocate reads the current maximum, derives the next code and calls commit,
// all inside one transaction. A duplicate-code rejection rolls the attempt back
// and retries with a freshly read maximum; every retry's candidate is strictly
// greater than the one before it. Once the budget is spent it returns
// *ConflictError and nothing is persisted.
//
// Allocate must not be called inside an outer transaction: a rejected insert
// aborts the whole Postgres transaction.
func (a *Allocator) Allocate(ctx context.Context, commit CommitFunc) (Code, error) {
	ctx, span := tracer.Start(ctx, "coupon.Allocate")
	defer span.End()

	start := time.Now()
	defer a.metrics.ObserveAllocationDuration(start)

	var previous int64 = -1
	var candidate Code
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "context done")
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "coupon allocation cancelled")
		}

		var value int64
		err := a.tx.RunInTx(ctx, func(txCtx context.Context) error {
			highest, err := a.source.MaxNumericCode(txCtx)
			if err != nil {
				return err
			}
			value = max(highest+1, previous+1)
			candidate = Format(value)
			if len(candidate) > MaxWidth {
				return dErrors.New(dErrors.CodeInvariantViolation, "coupon code space exhausted")
			}
			return commit(txCtx, candidate)
		})
		previous = value

		if err == nil {
			span.SetAttributes(
				attribute.String("coupon.code", candidate.String()),
				attribute.Int("coupon.attempts", attempt),
			)
			a.metrics.IncrementAllocations(value)
			if len(candidate) > MinWidth {
				a.logger.WarnContext(ctx, "coupon code wider than 4 digits",
					"coupon_code", candidate,
				)
			}
			return candidate, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "allocation failed")
			return "", err
		}

		a.metrics.IncrementRetries()
		a.logger.WarnContext(ctx, "coupon code taken by concurrent registration, retrying",
			"coupon_code", candidate,
			"attempt", attempt,
			"max_attempts", a.maxAttempts,
		)
	}

	a.metrics.IncrementConflicts()
	conflict := &ConflictError{Attempts: a.maxAttempts, LastCode: candidate}
	a.logger.ErrorContext(ctx, "coupon allocation retry budget exhausted",
		"attempts", a.maxAttempts,
		"last_candidate", candidate,
	)
	span.RecordError(conflict)
	span.SetStatus(codes.Error, "retry budget exhausted")
	return "", conflict
}

// Preview returns the code the next registration would most likely receive.
// It is advisory: no reservation is made and a concurrent registration may take
// it. Concurrent callers share one store read. The shared read is detached from
// any single caller's cancellation; each caller stops waiting on its own ctx.
func (a *Allocator) Preview(ctx context.Context) (Code, error) {
	ch := a.preview.DoChan("next", func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), previewTimeout)
		defer cancel()
		highest, err := a.source.MaxNumericCode(readCtx)
		if err != nil {
			return nil, err
		}
		return Format(highest + 1), nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(Code), nil
	}
}
