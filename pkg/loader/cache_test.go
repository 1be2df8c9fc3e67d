package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// stubSource counts loads so tests can observe cache hits.
type stubSource struct {
	key   string
	loads int
	err   error
}

func (s *stubSource) Key() string { return s.key }

func (s *stubSource) Load(ctx context.Context) (*model.Dataset, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return &model.Dataset{}, nil
}

func TestCacheLoadsOncePerKey(t *testing.T) {
	c, err := NewCache(zap.NewNop())
	require.NoError(t, err)
	src := &stubSource{key: "csv:/data"}

	first, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	second, err := c.Get(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, 1, src.loads)
	assert.Same(t, first, second)
}

func TestCacheKeysAreIndependent(t *testing.T) {
	c, err := NewCache(zap.NewNop())
	require.NoError(t, err)
	a := &stubSource{key: "csv:/a"}
	b := &stubSource{key: "csv:/b"}

	_, err = c.Get(context.Background(), a)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, 1, a.loads)
	assert.Equal(t, 1, b.loads)
}

func TestCacheInvalidateTriggersReload(t *testing.T) {
	c, err := NewCache(zap.NewNop())
	require.NoError(t, err)
	src := &stubSource{key: "csv:/data"}

	_, err = c.Get(context.Background(), src)
	require.NoError(t, err)

	c.Invalidate(src.Key())

	_, err = c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, src.loads)
}

func TestCacheInvalidateAll(t *testing.T) {
	c, err := NewCache(zap.NewNop())
	require.NoError(t, err)
	a := &stubSource{key: "csv:/a"}
	b := &stubSource{key: "csv:/b"}

	_, err = c.Get(context.Background(), a)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), b)
	require.NoError(t, err)

	c.InvalidateAll()

	_, err = c.Get(context.Background(), a)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 2, a.loads)
	assert.Equal(t, 2, b.loads)
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	c, err := NewCache(zap.NewNop())
	require.NoError(t, err)
	src := &stubSource{key: "csv:/data", err: errors.New("disk gone")}

	_, err = c.Get(context.Background(), src)
	require.Error(t, err)

	src.err = nil
	_, err = c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, src.loads)
}

func TestNewCacheValidation(t *testing.T) {
	_, err := NewCache(nil)
	require.Error(t, err)
}
