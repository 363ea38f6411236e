package coupon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/platform/tx"
)

// codeStore is a minimal uniqueness-enforcing store of issued codes.
type codeStore struct {
	mu    sync.Mutex
	codes map[string]bool
	reads int
}

func newCodeStore(codes ...string) *codeStore {
	s := &codeStore{codes: map[string]bool{}}
	for _, c := range codes {
		s.codes[c] = true
	}
	return s
}

func (s *codeStore) MaxNumericCode(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	all := make([]string, 0, len(s.codes))
	for c := range s.codes {
		all = append(all, c)
	}
	return MaxNumeric(all), nil
}

func (s *codeStore) insert(code Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes[string(code)] {
		return fmt.Errorf("insert donor: %w", ErrCodeTaken)
	}
	s.codes[string(code)] = true
	return nil
}

func (s *codeStore) has(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[code]
}

func (s *codeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

// staleSource always reports the same maximum, as if every read raced.
type staleSource struct{ value int64 }

func (s staleSource) MaxNumericCode(context.Context) (int64, error) { return s.value, nil }

// passthroughRunner runs fn without isolation so goroutines genuinely race.
type passthroughRunner struct{}

func (passthroughRunner) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newTestAllocator(t *testing.T, source MaxSource, runner tx.Runner, opts ...Option) *Allocator {
	t.Helper()
	a, err := NewAllocator(source, runner, opts...)
	require.NoError(t, err)
	return a
}

func TestAllocate_FollowsStoredMaximum(t *testing.T) {
	store := newCodeStore("0001", "0002", "0099")
	a := newTestAllocator(t, store, tx.NewMemoryRunner())

	code, err := a.Allocate(context.Background(), func(_ context.Context, c Code) error {
		return store.insert(c)
	})

	require.NoError(t, err)
	assert.Equal(t, Code("0100"), code)
	assert.True(t, store.has("0100"))
}

func TestAllocate_EmptyStore(t *testing.T) {
	store := newCodeStore("BLOOD2024")
	a := newTestAllocator(t, store, tx.NewMemoryRunner())

	code, err := a.Allocate(context.Background(), func(_ context.Context, c Code) error {
		return store.insert(c)
	})

	require.NoError(t, err)
	assert.Equal(t, Code("0001"), code)
}

// Two registrations snapshot "0099". The other one commits "0100" first; this
// one sees the duplicate, re-reads and commits "0101".
func TestAllocate_LostRaceRetriesWithFreshMaximum(t *testing.T) {
	store := newCodeStore("0001", "0002", "0099")
	a := newTestAllocator(t, store, tx.NewMemoryRunner())

	var attempts []Code
	code, err := a.Allocate(context.Background(), func(_ context.Context, c Code) error {
		attempts = append(attempts, c)
		if len(attempts) == 1 {
			require.NoError(t, store.insert("0100"))
		}
		return store.insert(c)
	})

	require.NoError(t, err)
	assert.Equal(t, Code("0101"), code)
	assert.Equal(t, []Code{"0100", "0101"}, attempts)
	assert.True(t, store.has("0100"))
	assert.True(t, store.has("0101"))
}

func TestAllocate_RetryBudgetExhausted(t *testing.T) {
	a := newTestAllocator(t, staleSource{value: 99}, tx.NewMemoryRunner())

	var attempts []Code
	code, err := a.Allocate(context.Background(), func(_ context.Context, c Code) error {
		attempts = append(attempts, c)
		return fmt.Errorf("insert donor: %w", ErrCodeTaken)
	})

	require.Error(t, err)
	assert.Empty(t, code)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, DefaultMaxAttempts, conflict.Attempts)
	assert.Equal(t, Code("0104"), conflict.LastCode)
	assert.True(t, errors.Is(err, sentinel.ErrConflict))

	// A stale maximum must never repeat a candidate.
	assert.Equal(t, []Code{"0100", "0101", "0102", "0103", "0104"}, attempts)
}

func TestAllocate_ConfigurableBudget(t *testing.T) {
	a := newTestAllocator(t, staleSource{value: 0}, tx.NewMemoryRunner(), WithMaxAttempts(2))

	calls := 0
	_, err := a.Allocate(context.Background(), func(context.Context, Code) error {
		calls++
		return ErrCodeTaken
	})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, conflict.Attempts)
}

func TestAllocate_OtherErrorsAreNotRetried(t *testing.T) {
	a := newTestAllocator(t, staleSource{}, tx.NewMemoryRunner())
	boom := errors.New("connection refused")

	calls := 0
	_, err := a.Allocate(context.Background(), func(context.Context, Code) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestAllocate_CancelledContextPersistsNothing(t *testing.T) {
	store := newCodeStore()
	a := newTestAllocator(t, store, tx.NewMemoryRunner())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Allocate(ctx, func(_ context.Context, c Code) error {
		return store.insert(c)
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	assert.Equal(t, 0, store.count())
}

func TestAllocate_WidensPast9999(t *testing.T) {
	store := newCodeStore("9999")
	a := newTestAllocator(t, store, tx.NewMemoryRunner())

	code, err := a.Allocate(context.Background(), func(_ context.Context, c Code) error {
		return store.insert(c)
	})

	require.NoError(t, err)
	assert.Equal(t, Code("10000"), code)
}

func TestAllocate_ConcurrentRegistrationsGetDistinctCodes(t *testing.T) {
	for name, runner := range map[string]tx.Runner{
		"serialized": tx.NewMemoryRunner(),
		"racing":     passthroughRunner{},
	} {
		t.Run(name, func(t *testing.T) {
			const n = 20
			store := newCodeStore()
			// Each lost race means another goroutine committed, so n attempts always suffice.
			a := newTestAllocator(t, store, runner, WithMaxAttempts(n))

			var wg sync.WaitGroup
			results := make(chan Code, n)
			errs := make(chan error, n)
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					code, err := a.Allocate(context.Background(), func(_ context.Context, c Code) error {
						return store.insert(c)
					})
					if err != nil {
						errs <- err
						return
					}
					results <- code
				}()
			}
			wg.Wait()
			close(results)
			close(errs)

			for err := range errs {
				t.Fatalf("unexpected allocation error: %v", err)
			}
			seen := map[Code]bool{}
			for code := range results {
				assert.False(t, seen[code], "duplicate code %s", code)
				seen[code] = true
			}
			assert.Len(t, seen, n)
			assert.Equal(t, n, store.count())
		})
	}
}

func TestPreview(t *testing.T) {
	store := newCodeStore("0001", "0007")
	a := newTestAllocator(t, store, tx.NewMemoryRunner())
	ctx := context.Background()

	first, err := a.Preview(ctx)
	require.NoError(t, err)
	second, err := a.Preview(ctx)
	require.NoError(t, err)

	assert.Equal(t, Code("0008"), first)
	assert.Equal(t, first, second, "preview is stable without intervening registrations")
	assert.Equal(t, 2, len(store.codes), "preview reserves nothing")

	_, err = a.Allocate(ctx, func(_ context.Context, c Code) error { return store.insert(c) })
	require.NoError(t, err)

	third, err := a.Preview(ctx)
	require.NoError(t, err)
	assert.Equal(t, Code("0009"), third)
}

// gatedSource blocks every read until release is closed.
type gatedSource struct {
	value   int64
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedSource(value int64) *gatedSource {
	return &gatedSource{value: value, entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedSource) MaxNumericCode(ctx context.Context) (int64, error) {
	s.once.Do(func() { close(s.entered) })
	select {
	case <-s.release:
		return s.value, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestPreview_CallerCancellationDoesNotFailSharers(t *testing.T) {
	source := newGatedSource(41)
	a := newTestAllocator(t, source, tx.NewMemoryRunner())

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	errA := make(chan error, 1)
	go func() {
		_, err := a.Preview(ctxA)
		errA <- err
	}()
	<-source.entered

	type result struct {
		code Code
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		code, err := a.Preview(context.Background())
		resB <- result{code, err}
	}()
	// let the second caller join the in-flight read
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(source.release)
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, Code("0042"), r.code)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
}

func TestNewAllocator_RequiresDependencies(t *testing.T) {
	_, err := NewAllocator(nil, tx.NewMemoryRunner())
	require.Error(t, err)
	_, err = NewAllocator(newCodeStore(), nil)
	require.Error(t, err)
}
