package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/apperror"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// scopeRange resolves the query params into a date window: scope=daily
// covers the selected day, scope=monthly its whole calendar month.
func scopeRange(c *gin.Context) (time.Time, time.Time, error) {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
		}
		date = parsed
	}

	switch c.DefaultQuery("scope", "daily") {
	case "monthly":
		from := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, -1)
		return from, to, nil
	case "daily":
		return date, date, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid scope %q, expected daily or monthly", c.Query("scope"))
	}
}

func (h *Handler) Get(c *gin.Context) {
	from, to, err := scopeRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	resp, err := h.service.Range(c.Request.Context(), from, to, c.Query("employee_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	from, to, err := scopeRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	filename := fmt.Sprintf("attendance-report-%s.csv", from.Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.ExportCSV(c.Request.Context(), c.Writer, from, to, c.Query("employee_id")); err != nil {
		// Headers may already be out; nothing graceful left to send
		c.Status(http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, nil)
}
