package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSymbolSource はテスト用のSymbolSourceモック実装です。
type mockSymbolSource struct {
	fetchFn func(ctx context.Context) ([]string, error)
	calls   int
}

// Fetch はモックのFetch関数を呼び出します。
func (m *mockSymbolSource) Fetch(ctx context.Context) ([]string, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}
	return nil, nil
}

// TestCachingSymbolSource_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingSymbolSource_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockSymbolSource{fetchFn: func(ctx context.Context) ([]string, error) {
		return []string{"AAPL"}, nil
	}}
	src := NewCachingSymbolSource(nil, inner, "")

	codes, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, codes)
	assert.Equal(t, DefaultSymbolsKey, src.key)
	assert.Equal(t, 1, inner.calls)
}

// TestCachingSymbolSource_CacheHit はキャッシュヒット時に内部ソースを呼ばないことを検証します。
func TestCachingSymbolSource_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	b, _ := json.Marshal([]string{"AAPL", "IBM"})
	mock.ExpectGet("symbols:test").SetVal(string(b))

	inner := &mockSymbolSource{}
	src := NewCachingSymbolSource(rdb, inner, "symbols:test")

	codes, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "IBM"}, codes)
	assert.Zero(t, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingSymbolSource_CacheMiss はキャッシュミス時に内部ソースから取得してキャッシュに保存することを検証します。
func TestCachingSymbolSource_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	b, _ := json.Marshal([]string{"MSFT"})
	mock.ExpectGet("symbols:test").RedisNil()
	mock.ExpectSet("symbols:test", b, time.Hour).SetVal("OK")

	inner := &mockSymbolSource{fetchFn: func(ctx context.Context) ([]string, error) {
		return []string{"MSFT"}, nil
	}}
	src := NewCachingSymbolSource(rdb, inner, "symbols:test")
	src.ttl = func() time.Duration { return time.Hour }

	codes, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, codes)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingSymbolSource_CorruptedEntry は壊れたキャッシュを削除して再取得することを検証します。
func TestCachingSymbolSource_CorruptedEntry(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	b, _ := json.Marshal([]string{"MSFT"})
	mock.ExpectGet("symbols:test").SetVal("{not json")
	mock.ExpectDel("symbols:test").SetVal(1)
	mock.ExpectSet("symbols:test", b, time.Hour).SetVal("OK")

	inner := &mockSymbolSource{fetchFn: func(ctx context.Context) ([]string, error) {
		return []string{"MSFT"}, nil
	}}
	src := NewCachingSymbolSource(rdb, inner, "symbols:test")
	src.ttl = func() time.Duration { return time.Hour }

	codes, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingSymbolSource_InnerError は内部ソースのエラーがそのまま返されキャッシュされないことを検証します。
func TestCachingSymbolSource_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("symbols:test").RedisNil()

	boom := errors.New("download failed")
	inner := &mockSymbolSource{fetchFn: func(ctx context.Context) ([]string, error) {
		return nil, boom
	}}
	src := NewCachingSymbolSource(rdb, inner, "symbols:test")

	_, err := src.Fetch(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
