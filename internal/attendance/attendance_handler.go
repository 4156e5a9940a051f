package attendance

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/auth"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/apperror"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

// releaseIdempotencyLock frees the in-flight lock the idempotency
// middleware took, so a failed attempt can be retried immediately instead
// of waiting out the lock TTL.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}
}

// cacheIdempotentResponse stores the success payload under the middleware's
// cache key; a replay with the same Idempotency-Key returns it verbatim.
func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		h.rdb.Set(c.Request.Context(), ck, payload, idempotencyCacheTTL)
	}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func sessionFrom(c *gin.Context) auth.Session {
	return auth.Session{
		UserID:     c.GetString("user_id"),
		EmployeeID: c.GetString("employee_id"),
		Role:       c.GetString("role"),
	}
}

// formLocation reads the GPS fix out of the multipart form. Nil when the
// coordinates are missing; the service rejects that.
func formLocation(c *gin.Context) *geo.Location {
	latStr := c.PostForm("latitude")
	longStr := c.PostForm("longitude")
	if latStr == "" || longStr == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	long, err := strconv.ParseFloat(longStr, 64)
	if err != nil {
		return nil
	}

	loc := &geo.Location{Latitude: lat, Longitude: long}
	if acc, err := strconv.ParseFloat(c.PostForm("accuracy"), 64); err == nil {
		loc.Accuracy = acc
	}
	return loc
}

func formSelfie(c *gin.Context) (multipart.File, error) {
	fh, err := c.FormFile("selfie")
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

func (h *Handler) CheckIn(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	loc := formLocation(c)

	var req CheckInRequest
	req.Location = loc
	if file, err := formSelfie(c); err == nil {
		defer file.Close()
		req.Selfie = file
	}

	resp, err := h.service.CheckIn(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	loc := formLocation(c)

	var req CheckOutRequest
	req.Location = loc
	if file, err := formSelfie(c); err == nil {
		defer file.Close()
		req.Selfie = file
	}

	resp, err := h.service.CheckOut(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Today(c *gin.Context) {
	resp, err := h.service.Today(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid from date, expected YYYY-MM-DD", nil)
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid to date, expected YYYY-MM-DD", nil)
			return
		}
		to = parsed
	}
	if to.Before(from) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Range end precedes range start", nil)
		return
	}

	resp, err := h.service.History(c.Request.Context(), sessionFrom(c), from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
