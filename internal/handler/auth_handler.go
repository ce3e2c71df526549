package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/middleware"
	"github.com/lendledger/lendledger-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	cookieSecure bool
	sessionTTL   time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, cookieSecure bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// RegisterRequest represents the register request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body. Role selects which login
// surface is used; it defaults to the regular user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// BorrowerResponse represents a borrower in API responses
type BorrowerResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func toBorrowerResponse(b *domain.Borrower) BorrowerResponse {
	return BorrowerResponse{
		ID:        b.ID,
		Name:      b.Name,
		Email:     b.Email,
		Role:      string(b.Role),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	borrower, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBorrowerNameEmpty):
			return NewValidationError(c, "Name is required", []ValidationError{{Field: "name", Message: "Must not be empty"}})
		case errors.Is(err, domain.ErrBorrowerEmailEmpty):
			return NewValidationError(c, "Email is required", []ValidationError{{Field: "email", Message: "Must not be empty"}})
		case errors.Is(err, domain.ErrBorrowerPasswordEmpty):
			return NewValidationError(c, "Password is required", []ValidationError{{Field: "password", Message: "Must not be empty"}})
		case errors.Is(err, domain.ErrBorrowerEmailTaken):
			return NewConflictError(c, "Email already registered")
		default:
			log.Error().Err(err).Msg("Failed to register borrower")
			return NewInternalError(c, "Failed to register")
		}
	}

	return c.JSON(http.StatusCreated, toBorrowerResponse(borrower))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	role := domain.RoleUser
	if req.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}

	session, borrower, err := h.authService.Login(req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Login failed")
		return NewInternalError(c, "Login failed")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID.String(),
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, toBorrowerResponse(borrower))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := middleware.GetSessionID(c)
	if err := h.authService.Logout(sessionID); err != nil {
		log.Warn().Err(err).Msg("Failed to delete session")
	}

	// Expire the cookie regardless
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	borrowerID := middleware.GetBorrowerID(c)

	borrower, err := h.authService.Me(borrowerID)
	if err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return NewUnauthorizedError(c, "Account no longer exists")
		}
		log.Error().Err(err).Msg("Failed to load borrower")
		return NewInternalError(c, "Failed to load account")
	}

	return c.JSON(http.StatusOK, toBorrowerResponse(borrower))
}
