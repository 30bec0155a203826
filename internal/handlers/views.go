package handlers

import (
	"errors"
	"net/http"

	"vitalboard/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      View state
// @Description  Current committed snapshot for a vital-sign category (cardiovascular, respiratory, hypertension)
// @Tags         views
// @Produce      json
// @Param        category  path  string  true  "View category"  Enums(cardiovascular,respiratory,hypertension)
// @Success      200  {object}  service.ViewState
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/views/{category} [get]
// @Security     BearerAuth
func (h *Handler) viewState(c *gin.Context) {
	state, err := h.services.State(c.Param("category"))
	if err != nil {
		h.viewError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// @Summary      Refresh a view
// @Description  Runs one fetch cycle now and returns the committed state. Overlap with the periodic refresh is last-commit-wins.
// @Tags         views
// @Produce      json
// @Param        category  path  string  true  "View category"  Enums(cardiovascular,respiratory,hypertension)
// @Success      200  {object}  service.ViewState
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/views/{category}/refresh [post]
// @Security     BearerAuth
func (h *Handler) viewRefresh(c *gin.Context) {
	state, err := h.services.Refresh(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.viewError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) viewError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnknownCategory) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if h.log != nil {
		h.log.Errorw("view_request_failed", "category", c.Param("category"), "err", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load view"})
}
