package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"projectops/internal/middlewares"
	"projectops/internal/responses"
	"projectops/internal/services"
)

// Cookie configuration
const (
	RefreshTokenCookieName = "refresh_token"
	refreshCookiePath      = "/api/v1/auth"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sessionResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        interface{} `json:"user,omitempty"`
}

// startSession puts the refresh token in an HttpOnly cookie and returns only the access token in the body.
func startSession(c *gin.Context, session *services.Session) sessionResponse {
	maxAge := int(time.Until(session.Tokens.RefreshExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshTokenCookieName, session.Tokens.RefreshToken, maxAge, refreshCookiePath, "", true, true)

	return sessionResponse{
		AccessToken: session.Tokens.AccessToken,
		ExpiresAt:   session.Tokens.AccessExpiresAt,
		User:        session.User,
	}
}

func clearSession(c *gin.Context) {
	c.SetCookie(RefreshTokenCookieName, "", -1, refreshCookiePath, "", true, true)
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Please provide your email and password correctly")
		return
	}

	session, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Could not register user")
		return
	}

	responses.Success(c, http.StatusCreated, startSession(c, session), "New user registered successfully!")
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid Format")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to login")
		return
	}

	responses.Success(c, http.StatusOK, startSession(c, session), "User Login Successfully!")
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookieName)
	if err != nil || refreshToken == "" {
		responses.Fail(c, http.StatusUnauthorized, services.ErrUnauthenticated, "Missing refresh token")
		return
	}

	session, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		clearSession(c)
		writeError(c, err, "Invalid or expired refresh token")
		return
	}

	resp := startSession(c, session)
	resp.User = nil
	responses.Success(c, http.StatusOK, resp, "Access token refreshed successfully")
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	issuedAt := c.GetTime(middlewares.TokenIssuedAtKey)
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	err := h.authService.Logout(c.Request.Context(), c.GetString(middlewares.TokenIDKey), h.authService.RefreshExpiry(issuedAt))
	if err != nil {
		writeError(c, err, "Could not revoke token")
		return
	}

	clearSession(c)
	responses.Success(c, http.StatusOK, nil, "Logged out successfully")
}
