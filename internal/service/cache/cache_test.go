package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "forever", []byte("f"), 0))

	b, ok, err := c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(b))

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.GetBytes(ctx, "k")
	assert.False(t, ok)
	_, ok, _ = c.GetBytes(ctx, "forever")
	assert.True(t, ok)
}

func TestGetOrLoad(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"TSLA", "AMZN"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := GetOrLoad(ctx, c, Key("stocks", "all"), time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"TSLA", "AMZN"}, v)
	}
	assert.Equal(t, 1, calls)

	_, err := GetOrLoad(ctx, c, Key("x"), time.Minute, func(context.Context) (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	_, ok, _ := c.GetBytes(ctx, Key("x"))
	assert.False(t, ok, "errors are not cached")

	v, err := GetOrLoad[int](ctx, nil, "k", time.Minute, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

type flakyCache struct {
	data map[string][]byte
	err  error
}

func (f *flakyCache) GetBytes(_ context.Context, k string) ([]byte, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	b, ok := f.data[k]
	return b, ok, nil
}

func (f *flakyCache) SetBytes(_ context.Context, k string, v []byte, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[k] = v
	return nil
}

func TestLayered(t *testing.T) {
	ctx := context.Background()
	l2 := &flakyCache{data: map[string][]byte{"shared": []byte("from-l2")}}
	c := NewLayered(l2, time.Second)

	b, ok, err := c.GetBytes(ctx, "shared")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "from-l2", string(b))

	// served from l1 even when l2 is down
	l2.err = errors.New("redis down")
	b, ok, err = c.GetBytes(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "from-l2", string(b))

	assert.Error(t, c.SetBytes(ctx, "new", []byte("x"), time.Minute))
	_, ok, err = c.GetBytes(ctx, "new")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "stockpulse:news:technology", Key("news", "technology"))
	assert.Equal(t, "stockpulse:predictions:5", Key("predictions", 5))
}
