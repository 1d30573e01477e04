package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {

	engines := make([]*fakeEngine, 0, 3)

	pool, err := NewPool(3, func(i int) (*Pipeline, error) {
		eng := &fakeEngine{raw: twoDetections()}
		engines = append(engines, eng)
		return newTestPipeline(eng)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, pool.Size())

	a, err := pool.Get(context.Background())
	require.NoError(t, err)
	b, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	pool.Return(a)

	pool.Close()

	// only idle pipelines are closed by Close
	closed := 0
	for _, e := range engines {
		if e.closed.Load() {
			closed++
		}
	}
	assert.Equal(t, 2, closed)

	pool.Return(b)
	assert.True(t, engines[0].closed.Load() && engines[1].closed.Load() &&
		engines[2].closed.Load())
}

func TestPoolFactoryError(t *testing.T) {

	var built []*fakeEngine

	_, err := NewPool(3, func(i int) (*Pipeline, error) {
		if i == 2 {
			return nil, errors.New("no device")
		}
		eng := &fakeEngine{}
		built = append(built, eng)
		return newTestPipeline(eng)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating pipeline 3 of 3")

	for _, e := range built {
		assert.True(t, e.closed.Load())
	}
}

func TestPoolInvalidSize(t *testing.T) {
	_, err := NewPool(0, nil)
	assert.Error(t, err)
}

func TestPoolGetHonoursContext(t *testing.T) {

	pool, err := NewPool(1, func(int) (*Pipeline, error) {
		return newTestPipeline(&fakeEngine{raw: twoDetections()})
	})
	require.NoError(t, err)
	defer pool.Close()

	pl, err := pool.Get(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = pool.Get(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	pool.Return(pl)

	got, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, pl, got)
}
