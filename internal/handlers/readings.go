package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"vitalboard/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	defaultHistoryWindow = 24 * time.Hour
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Latest readings
// @Description  Newest reading per device from the latest-per-device projection
// @Tags         readings
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/readings/latest [get]
// @Security     BearerAuth
func (h *Handler) latestReadings(c *gin.Context) {
	readings := h.services.Latest(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Readings in range
// @Description  Readings with timestamp in [from, to] inclusive, ascending. Date-only 'to' is treated as end-of-day inclusive. Defaults to the last 24 hours when both bounds are omitted.
// @Tags         readings
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to    query   string  false  "End of range; date-only treated as end of day."  example(2025-08-31)
// @Success      200   {object}  map[string]interface{}  "count, range, readings"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) readingsInRange(c *gin.Context) {
	tr, ok := h.rangeFromQuery(c)
	if !ok {
		return
	}
	readings := h.services.InRange(c.Request.Context(), tr)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"range":    tr,
		"readings": readings,
	})
}

// rangeFromQuery parses from/to query params into a TimeRange, answering 400
// itself on bad input. Missing bounds fall back to the rolling default window.
func (h *Handler) rangeFromQuery(c *gin.Context) (models.TimeRange, bool) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return models.TimeRange{}, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return models.TimeRange{}, false
		}
		// If the user didn't include a time component, treat "to" as the end of that day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	now := time.Now().UTC()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.Add(-defaultHistoryWindow)
	}
	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return models.TimeRange{}, false
	}
	return models.NewTimeRange(from, to), true
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
