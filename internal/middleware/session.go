package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

// SessionCookieName is the cookie that carries the opaque session ID
const SessionCookieName = "session_id"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionIDKey is the context key for the session ID
	SessionIDKey contextKey = "session_id"
	// BorrowerIDKey is the context key for the authenticated borrower's ID
	BorrowerIDKey contextKey = "borrower_id"
	// RoleKey is the context key for the authenticated borrower's role
	RoleKey contextKey = "role"
)

// SessionMiddleware authenticates requests against the session store
type SessionMiddleware struct {
	sessions redis.SessionStore
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(sessions redis.SessionStore) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Authenticate returns an Echo middleware that resolves the session cookie
// into a borrower identity. The cookie only ever holds the opaque session
// ID; everything else lives server-side.
func (m *SessionMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return unauthorizedError(c, "missing session cookie")
			}

			sessionID, err := uuid.Parse(cookie.Value)
			if err != nil {
				return unauthorizedError(c, "invalid session cookie")
			}

			session, err := m.sessions.Get(sessionID)
			if err != nil {
				if errors.Is(err, redis.ErrSessionNotFound) {
					return unauthorizedError(c, "session expired")
				}
				log.Error().Err(err).Msg("Session lookup failed")
				return unauthorizedError(c, "session lookup failed")
			}

			ctx := context.WithValue(c.Request().Context(), SessionIDKey, session.ID)
			ctx = context.WithValue(ctx, BorrowerIDKey, session.BorrowerID)
			ctx = context.WithValue(ctx, RoleKey, session.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireAdmin returns a middleware that rejects non-admin sessions.
// Must run after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetRole(c) != domain.RoleAdmin {
				return forbiddenError(c, "admin access required")
			}
			return next(c)
		}
	}
}

// GetSessionID extracts the session ID from the context
func GetSessionID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(SessionIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetBorrowerID extracts the authenticated borrower's ID from the context
func GetBorrowerID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(BorrowerIDKey).(int32); ok {
		return id
	}
	return 0
}

// GetRole extracts the authenticated borrower's role from the context
func GetRole(c echo.Context) domain.Role {
	if role, ok := c.Request().Context().Value(RoleKey).(domain.Role); ok {
		return role
	}
	return ""
}
