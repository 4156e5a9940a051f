package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("idemp:/check-in:emp-1:key-1").SetVal(`{"state":"CHECKED_IN"}`)

	handlerCalled := false
	r := gin.New()
	r.POST("/check-in",
		func(c *gin.Context) { c.Set("employee_id", "emp-1"); c.Next() },
		middleware.Idempotency(rdb),
		func(c *gin.Context) { handlerCalled = true; c.Status(http.StatusCreated) },
	)

	req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CHECKED_IN")
	assert.False(t, handlerCalled, "replay must not reach the handler")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentDuplicateConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("idemp:/check-in:emp-1:key-1").RedisNil()
	mock.ExpectSetNX("idemp:/check-in:emp-1:key-1:lock", "locked", 30*time.Second).SetVal(false)

	r := gin.New()
	r.POST("/check-in",
		func(c *gin.Context) { c.Set("employee_id", "emp-1"); c.Next() },
		middleware.Idempotency(rdb),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PROCESSING")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FirstRequestHandsKeysToHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("idemp:/check-in:emp-1:key-1").RedisNil()
	mock.ExpectSetNX("idemp:/check-in:emp-1:key-1:lock", "locked", 30*time.Second).SetVal(true)

	var cacheKey, lockKey string
	r := gin.New()
	r.POST("/check-in",
		func(c *gin.Context) { c.Set("employee_id", "emp-1"); c.Next() },
		middleware.Idempotency(rdb),
		func(c *gin.Context) {
			cacheKey = c.GetString("idempotency_cache_key")
			lockKey = c.GetString("idempotency_lock_key")
			c.Status(http.StatusCreated)
		},
	)

	req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "idemp:/check-in:emp-1:key-1", cacheKey)
	assert.Equal(t, "idemp:/check-in:emp-1:key-1:lock", lockKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/check-in",
		middleware.Idempotency(rdb),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/check-in", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
