package decorators

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/infrastructure/persistence/memory"
	"github.com/novacaap/java-sample-docker/internal/repository"
	"github.com/novacaap/java-sample-docker/internal/repository/repotest"
	appErrors "github.com/novacaap/java-sample-docker/pkg/errors"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Bool(1), args.Error(2)
}

func (m *MockItemRepository) Create(ctx context.Context, name, description string) (domain.Item, error) {
	args := m.Called(ctx, name, description)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, id domain.ItemID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type recordedOp struct {
	operation string
	backend   string
	failed    bool
}

type fakeRecorder struct {
	ops    []recordedOp
	states map[string]float64
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{states: make(map[string]float64)}
}

func (f *fakeRecorder) RecordRepoOperation(operation, backend string, err error, _ time.Duration) {
	f.ops = append(f.ops, recordedOp{operation, backend, err != nil})
}

func (f *fakeRecorder) SetBreakerState(name string, state float64) {
	f.states[name] = state
}

func TestDecoratedStack_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.ItemRepository {
		var repo repository.ItemRepository = memory.NewItemStore()
		repo = NewMetricsItemRepository(repo, newFakeRecorder(), "memory")
		repo = NewCircuitBreakerItemRepository(repo, DefaultCircuitBreakerConfig("test"), nil, zap.NewNop())
		return TraceItemRepository(repo, sdktrace.NewTracerProvider().Tracer("test"), "memory")
	})
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	inner := new(MockItemRepository)
	backendErr := errors.New("connection refused")
	inner.On("List", mock.Anything).Return(nil, backendErr).Times(5)

	recorder := newFakeRecorder()
	config := DefaultCircuitBreakerConfig("items")
	repo := NewCircuitBreakerItemRepository(inner, config, recorder, zap.NewNop())
	assert.Equal(t, float64(gobreaker.StateClosed), recorder.states["items"])

	for i := 0; i < 5; i++ {
		_, err := repo.List(ctx)
		require.ErrorIs(t, err, backendErr)
	}

	assert.Equal(t, gobreaker.StateOpen, repo.State())
	assert.Equal(t, float64(gobreaker.StateOpen), recorder.states["items"])

	_, err := repo.List(ctx)
	require.Error(t, err)
	assert.True(t, appErrors.IsUnavailable(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	inner.AssertExpectations(t)
	inner.AssertNumberOfCalls(t, "List", 5)
}

func TestCircuitBreaker_NotFoundIsSuccess(t *testing.T) {
	ctx := context.Background()
	inner := new(MockItemRepository)
	inner.On("Get", mock.Anything, domain.ItemID(999)).Return(domain.Item{}, false, nil)
	inner.On("Delete", mock.Anything, domain.ItemID(999)).Return(false, nil)

	repo := NewCircuitBreakerItemRepository(inner, DefaultCircuitBreakerConfig("items"), nil, zap.NewNop())
	for i := 0; i < 10; i++ {
		_, found, err := repo.Get(ctx, 999)
		require.NoError(t, err)
		assert.False(t, found)

		removed, err := repo.Delete(ctx, 999)
		require.NoError(t, err)
		assert.False(t, removed)
	}

	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestCircuitBreaker_CanceledCallsDoNotTrip(t *testing.T) {
	inner := new(MockItemRepository)
	inner.On("Create", mock.Anything, "n", "d").Return(domain.Item{}, context.Canceled)

	repo := NewCircuitBreakerItemRepository(inner, DefaultCircuitBreakerConfig("items"), nil, zap.NewNop())
	for i := 0; i < 10; i++ {
		_, err := repo.Create(context.Background(), "n", "d")
		require.ErrorIs(t, err, context.Canceled)
	}

	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestMetricsItemRepository_RecordsEveryCall(t *testing.T) {
	ctx := context.Background()
	inner := new(MockItemRepository)
	inner.On("List", mock.Anything).Return([]domain.Item{}, nil)
	inner.On("Get", mock.Anything, domain.ItemID(1)).Return(domain.Item{ID: 1}, true, nil)
	inner.On("Create", mock.Anything, "a", "b").Return(domain.Item{}, errors.New("disk full"))
	inner.On("Delete", mock.Anything, domain.ItemID(1)).Return(true, nil)

	recorder := newFakeRecorder()
	repo := NewMetricsItemRepository(inner, recorder, "badger")

	_, _ = repo.List(ctx)
	_, _, _ = repo.Get(ctx, 1)
	_, _ = repo.Create(ctx, "a", "b")
	_, _ = repo.Delete(ctx, 1)

	assert.Equal(t, []recordedOp{
		{"list", "badger", false},
		{"get", "badger", false},
		{"create", "badger", true},
		{"delete", "badger", false},
	}, recorder.ops)
	inner.AssertExpectations(t)
}

func TestTraceItemRepository_Spans(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	inner := new(MockItemRepository)
	inner.On("Get", mock.Anything, domain.ItemID(7)).Return(domain.Item{}, false, nil)
	inner.On("Delete", mock.Anything, domain.ItemID(7)).Return(false, errors.New("timeout"))

	repo := TraceItemRepository(inner, tp.Tracer("test"), "dynamodb")
	_, _, _ = repo.Get(ctx, 7)
	_, _ = repo.Delete(ctx, 7)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "repository.Get", spans[0].Name())
	assert.Equal(t, "repository.Delete", spans[1].Name())
	assert.Len(t, spans[1].Events(), 1, "error recorded as span event")
}
