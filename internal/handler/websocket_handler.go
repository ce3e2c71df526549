package handler

import (
	"net/http"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/lendledger/lendledger-backend/internal/middleware"
	"github.com/lendledger/lendledger-backend/internal/repository/redis"
	"github.com/lendledger/lendledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	sessions       redis.SessionStore
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, sessions redis.SessionStore, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		sessions:       sessions,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. The browser
// sends the session cookie with the handshake, so the same session that
// authenticates API calls authenticates the socket.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		log.Debug().Msg("WebSocket connection rejected: missing session cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	sessionID, err := uuid.Parse(cookie.Value)
	if err != nil {
		log.Debug().Msg("WebSocket connection rejected: malformed session cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: session lookup failed")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	// Create client and register with hub
	client := websocket.NewClient(conn, session.BorrowerID, h.hub)
	h.hub.Register(client)

	log.Info().
		Int32("borrower_id", session.BorrowerID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	return nil
}
