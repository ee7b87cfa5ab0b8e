package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countQuery struct{ N int }

func (q countQuery) Validate() error {
	if q.N < 0 {
		return errors.New("n must be positive")
	}
	return nil
}

func TestQueryBus_Ask(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(countQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		return q.(countQuery).N * 2, nil
	})))
	assert.Error(t, b.Register(countQuery{}, QueryHandlerFunc(nil)))

	result, err := b.Ask(context.Background(), countQuery{N: 21})
	require.NoError(t, err)
	assert.Equal(t, 42, result)

	n, err := AskAs[int](context.Background(), b, countQuery{N: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = AskAs[string](context.Background(), b, countQuery{N: 2})
	assert.ErrorContains(t, err, "returned int")

	_, err = b.Ask(context.Background(), countQuery{N: -1})
	assert.ErrorContains(t, err, "query validation failed")
}

type unknownQuery struct{}

func (unknownQuery) Validate() error { return nil }

func TestQueryBus_UnknownQuery(t *testing.T) {
	_, err := NewQueryBus().Ask(context.Background(), unknownQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

type dispatch struct {
	bus, message string
	err          error
}

type recordingObserver struct{ seen []dispatch }

func (o *recordingObserver) ObserveDispatch(bus, message string, err error, _ time.Duration) {
	o.seen = append(o.seen, dispatch{bus, message, err})
}

func TestQueryBus_Middlewares(t *testing.T) {
	observer := &recordingObserver{}
	b := NewQueryBus(MetricsMiddleware(observer), SlowQueryMiddleware(time.Hour, zap.NewNop()))

	boom := errors.New("boom")
	require.NoError(t, b.Register(countQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		if q.(countQuery).N == 0 {
			return nil, boom
		}
		return q.(countQuery).N, nil
	})))

	n, err := AskAs[int](context.Background(), b, countQuery{N: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = b.Ask(context.Background(), countQuery{N: 0})
	assert.ErrorIs(t, err, boom)

	_, err = AskAs[string](context.Background(), b, countQuery{N: 1})
	assert.ErrorContains(t, err, "want string")

	require.Len(t, observer.seen, 3)
	assert.Equal(t, dispatch{"query", "countQuery", nil}, observer.seen[0])
	assert.ErrorIs(t, observer.seen[1].err, boom)
}
