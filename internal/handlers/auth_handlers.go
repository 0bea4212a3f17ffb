package handlers

import (
	"net/http"
	"time"

	"collabhub/internal/common"
	"collabhub/internal/models"
	"collabhub/internal/services"

	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refresh_token"

// AuthHandlers exposes the REST session endpoints. The refresh token rides an
// httpOnly cookie; only the access token appears in response bodies.
type AuthHandlers struct {
	sessionSvc services.SessionService
	refreshTTL time.Duration
	secure     bool
}

func NewAuthHandlers(sessionSvc services.SessionService, refreshTTL time.Duration, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		sessionSvc: sessionSvc,
		refreshTTL: refreshTTL,
		secure:     secureCookies,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest("Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.BadRequest("Email and password are required")
	}

	pair, user, err := h.sessionSvc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, LoginResponse{AccessToken: pair.AccessToken, User: user})
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Refresh handles POST /auth/refresh. The refresh token is read from the
// cookie, never the body.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}

	pair, err := h.sessionSvc.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, RefreshResponse{AccessToken: pair.AccessToken})
}

// Logout handles POST /auth/logout. Stateless: clearing the cookie is the
// whole operation; there is no server-side revocation list.
func (h *AuthHandlers) Logout(c echo.Context) error {
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandlers) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/v1/auth",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandlers) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
