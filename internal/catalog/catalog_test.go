package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chuyenmonc1nhuhan/nls/internal/cache"
	"github.com/chuyenmonc1nhuhan/nls/internal/nls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	values  map[string]string
	getErr  error
	setErr  error
	setTTLs []time.Duration
}

func (f *fakeStore) get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.values[key], nil
}

func (f *fakeStore) set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = string(value.([]byte))
	f.setTTLs = append(f.setTTLs, ttl)
	return nil
}

func TestLoadLookup(t *testing.T) {
	logger := zap.NewNop()
	rows := map[string]string{"1.1.a": "Tìm kiếm thông tin"}

	t.Run("miss loads db then caches", func(t *testing.T) {
		store := &fakeStore{values: map[string]string{}}
		queries := 0
		load := NewLoadLookup(func(context.Context) (map[string]string, error) {
			queries++
			return rows, nil
		}, store.get, store.set, time.Hour)

		lookup, err := load(context.Background(), logger)
		require.NoError(t, err)
		assert.Equal(t, nls.Lookup(rows), lookup)
		assert.JSONEq(t, `{"1.1.a":"Tìm kiếm thông tin"}`, store.values[cache.KeyNlsCompetency])
		assert.Equal(t, []time.Duration{time.Hour}, store.setTTLs)

		lookup, err = load(context.Background(), logger)
		require.NoError(t, err)
		assert.Equal(t, nls.Lookup(rows), lookup)
		assert.Equal(t, 1, queries)
	})

	t.Run("cache failures fall back to db", func(t *testing.T) {
		store := &fakeStore{values: map[string]string{}, getErr: errors.New("redis down"), setErr: errors.New("redis down")}
		load := NewLoadLookup(func(context.Context) (map[string]string, error) {
			return rows, nil
		}, store.get, store.set, time.Hour)

		lookup, err := load(context.Background(), logger)
		require.NoError(t, err)
		assert.Equal(t, nls.Lookup(rows), lookup)
	})

	t.Run("corrupted cache is reloaded", func(t *testing.T) {
		store := &fakeStore{values: map[string]string{cache.KeyNlsCompetency: "{not json"}}
		load := NewLoadLookup(func(context.Context) (map[string]string, error) {
			return rows, nil
		}, store.get, store.set, 0)

		lookup, err := load(context.Background(), logger)
		require.NoError(t, err)
		assert.Equal(t, nls.Lookup(rows), lookup)
	})

	t.Run("db error surfaces", func(t *testing.T) {
		store := &fakeStore{values: map[string]string{}}
		load := NewLoadLookup(func(context.Context) (map[string]string, error) {
			return nil, errors.New("db down")
		}, store.get, store.set, time.Hour)

		_, err := load(context.Background(), logger)
		assert.EqualError(t, err, "db down")
	})
}
