package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Literal outcome texts for the two email-based flows.
const (
	msgConfirmEmail = "Check your email for the confirmation link."
	msgMagicLink    = "Check your email for the magic link."
)

// Single, shared credentials payload for sign-up and sign-in.
type authCredentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Sign up
// @Description  Creates an account with the default patient role claim
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]interface{}  "id, message"
// @Failure      400   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(input.Email, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "email", input.Email, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": msgConfirmEmail})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string  "token"
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "email", input.Email, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Request a magic link
// @Description  Passwordless sign-in request
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  emailRequest  true  "Email"
// @Success      200   {object}  map[string]string  "message"
// @Failure      400   {object}  map[string]string
// @Router       /auth/magic-link [post]
func (h *Handler) magicLink(c *gin.Context) {
	var input emailRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.RequestMagicLink(input.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgMagicLink})
}

// @Summary      Sign out
// @Description  Invalidates the current session; safe to call when already signed out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string  "status, redirect"
// @Router       /auth/sign-out [post]
// @Security     BearerAuth
func (h *Handler) signOut(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		if err := h.services.SignOut(c.Request.Context(), token); err != nil {
			if h.log != nil {
				h.log.Errorw("auth_sign_out_failed", "err", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
			return
		}
	}
	// navigation side effect to the public landing surface
	c.JSON(http.StatusOK, gin.H{"status": "signed_out", "redirect": "/"})
}

// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.Session
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/session [get]
// @Security     BearerAuth
func (h *Handler) currentSession(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "redirect": loginRedirect})
		return
	}
	c.JSON(http.StatusOK, session)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
