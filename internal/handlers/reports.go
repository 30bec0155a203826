package handlers

import (
	"errors"
	"net/http"
	"time"

	"vitalboard/internal/models"
	"vitalboard/internal/service"

	"github.com/gin-gonic/gin"
)

// reports default to the last 7 days, the report view's own window
const defaultReportWindow = 7 * 24 * time.Hour

// @Summary      Report fields
// @Description  The selectable measurement fields with labels, units and reference ranges
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "fields"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/reports/fields [get]
// @Security     BearerAuth
func (h *Handler) reportFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": service.FieldCatalog()})
}

// @Summary      Field summary
// @Description  Count/min/max/mean for one field over the range; 'defined' is false when no values survive null/NaN filtering
// @Tags         reports
// @Produce      json
// @Param        field  query  string  true   "Measurement field"  Enums(heart_rate,spo2,body_temp_f,temperature,humidity,air_quality,ecg_value)
// @Param        from   query  string  false  "Start of range"
// @Param        to     query  string  false  "End of range; date-only treated as end of day."
// @Success      200  {object}  service.FieldSummary
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/reports/summary [get]
// @Security     BearerAuth
func (h *Handler) reportSummary(c *gin.Context) {
	field, tr, ok := h.reportParams(c)
	if !ok {
		return
	}
	summary, err := h.services.Summary(c.Request.Context(), field, tr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary      PDF report
// @Description  Renders the summary document. 404 when the range holds no readings; export is inert on an empty result set.
// @Tags         reports
// @Produce      application/pdf
// @Param        field  query  string  true   "Measurement field"
// @Param        from   query  string  false  "Start of range"
// @Param        to     query  string  false  "End of range"
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/reports/pdf [get]
// @Security     BearerAuth
func (h *Handler) reportPDF(c *gin.Context) {
	field, tr, ok := h.reportParams(c)
	if !ok {
		return
	}
	doc, err := h.services.PDF(c.Request.Context(), field, tr)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrUnknownField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if h.log != nil {
			h.log.Errorw("report_pdf_failed", "field", field, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}

func (h *Handler) reportParams(c *gin.Context) (models.Field, models.TimeRange, bool) {
	field, ok := models.ParseField(c.Query("field"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown or missing 'field'"})
		return "", models.TimeRange{}, false
	}
	if c.Query("from") == "" && c.Query("to") == "" {
		return field, models.LastDuration(defaultReportWindow), true
	}
	tr, ok := h.rangeFromQuery(c)
	if !ok {
		return "", models.TimeRange{}, false
	}
	return field, tr, true
}
