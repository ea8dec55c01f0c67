package handler

import (
	"context"
	"fmt"
	"net/http"

	"taskboard/internal/auth"
	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const stateCookie = "oauth_state"

type UserEnsurer interface {
	EnsureUser(ctx context.Context, user *model.User) (*model.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	provider       auth.IdentityProvider
	users          UserEnsurer
	tokens         TokenIssuer
	allowedOrigins []string
}

func NewAuthHandler(provider auth.IdentityProvider, users UserEnsurer, tokens TokenIssuer, allowedOrigins []string) *AuthHandler {
	return &AuthHandler{
		provider:       provider,
		users:          users,
		tokens:         tokens,
		allowedOrigins: allowedOrigins,
	}
}

type SessionResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login redirects to the Google consent screen.
//
// @Summary  Start Google sign-in
// @Tags     Auth
// @Param    origin query string false "origin of the page starting sign-in"
// @Success  302
// @Failure  403 {object} map[string]string
// @Router   /auth/google/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	origin := c.Query("origin")
	if origin == "" {
		origin = c.GetHeader("Origin")
	}
	if err := auth.CheckOrigin(h.allowedOrigins, origin); err != nil {
		respondError(c, err)
		return
	}

	state := uuid.NewString()
	c.SetCookie(stateCookie, state, 600, "/auth/google", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback finishes sign-in, registering the user on first visit.
//
// @Summary  Google sign-in callback
// @Tags     Auth
// @Produce  json
// @Param    code  query string false "authorization code"
// @Param    state query string true  "state issued by login"
// @Param    error query string false "error reported by Google"
// @Success  200 {object} SessionResponse
// @Failure  401 {object} map[string]string
// @Router   /auth/google/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		if reason == "access_denied" {
			respondError(c, auth.ErrSignInCancelled)
			return
		}
		log.WithField("reason", reason).Warn("google sign-in failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Google sign-in failed: %s", reason)})
		return
	}

	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sign-in state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth/google", "", c.Request.TLS != nil, true)

	ctx := c.Request.Context()
	identity, err := h.provider.Exchange(ctx, c.Query("code"))
	if err != nil {
		log.WithError(err).Warn("google code exchange failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Google sign-in failed"})
		return
	}

	user, err := h.users.EnsureUser(ctx, &model.User{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  model.RoleDeveloper,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Token: token, User: user})
}

// Me returns the signed-in user.
//
// @Summary  Current user
// @Tags     Auth
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} model.User
// @Router   /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
		return
	}
	c.JSON(http.StatusOK, user)
}
