package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errRedisNil = errors.New("redis: nil")

type idemStore struct {
	values map[string]string
	sets   int
	dels   int
	getErr error
}

func withIdemStore(t *testing.T, store *idemStore) {
	t.Helper()
	origGet, origSet, origSetNX, origDel := redisGet, redisSet, redisSetNX, redisDel
	t.Cleanup(func() {
		redisGet, redisSet, redisSetNX, redisDel = origGet, origSet, origSetNX, origDel
	})

	redisGet = func(_ context.Context, key string) (string, error) {
		if store.getErr != nil {
			return "", store.getErr
		}
		v, ok := store.values[key]
		if !ok {
			return "", errRedisNil
		}
		return v, nil
	}
	redisSet = func(_ context.Context, key string, value interface{}, _ time.Duration) error {
		store.values[key] = value.(string)
		store.sets++
		return nil
	}
	redisSetNX = func(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
		if _, ok := store.values[key]; ok {
			return false, nil
		}
		store.values[key] = value.(string)
		return true, nil
	}
	redisDel = func(_ context.Context, key string) error {
		delete(store.values, key)
		store.dels++
		return nil
	}
}

func idemRouter(status int) *gin.Engine {
	r := gin.New()
	calls := 0
	r.POST("/op", IdempotencyMiddleware(), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"calls": calls})
	})
	return r
}

func postIdem(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	store := &idemStore{values: map[string]string{}}
	withIdemStore(t, store)
	r := idemRouter(http.StatusOK)

	w := postIdem(r, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, store.sets)
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	store := &idemStore{values: map[string]string{}}
	withIdemStore(t, store)
	r := idemRouter(http.StatusOK)

	first := postIdem(r, "key-1")
	require.Equal(t, http.StatusOK, first.Code)
	require.Contains(t, first.Body.String(), `"calls":1`)

	second := postIdem(r, "key-1")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	// The handler did not run again: the cached body is replayed verbatim.
	require.Contains(t, second.Body.String(), `"calls":1`)
}

func TestIdempotency_InProgressConflicts(t *testing.T) {
	store := &idemStore{values: map[string]string{}}
	withIdemStore(t, store)
	r := idemRouter(http.StatusOK)

	// Pre-seed the processing lock, as a concurrent in-flight request would.
	store.values["idempotency:00000000-0000-0000-0000-000000000000:key-1"] = "processing"

	w := postIdem(r, "key-1")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotency_FailureStaysRetryable(t *testing.T) {
	store := &idemStore{values: map[string]string{}}
	withIdemStore(t, store)
	r := idemRouter(http.StatusBadGateway)

	w := postIdem(r, "key-1")
	require.Equal(t, http.StatusBadGateway, w.Code)
	// The lock was released, not cached.
	require.Equal(t, 1, store.dels)
	require.Empty(t, store.values)
}

func TestIdempotency_RedisDownPassesThrough(t *testing.T) {
	store := &idemStore{values: map[string]string{}, getErr: errors.New("dial tcp: refused")}
	withIdemStore(t, store)
	r := idemRouter(http.StatusOK)

	w := postIdem(r, "key-1")
	require.Equal(t, http.StatusOK, w.Code)
}
