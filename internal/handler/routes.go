package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/lendledger/lendledger-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, loanHandler *LoanHandler, paymentHandler *PaymentHandler, exportHandler *ExportHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (register/login are public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, sessionMiddleware.Authenticate())
	auth.GET("/me", authHandler.Me, sessionMiddleware.Authenticate())

	// Loan routes (protected)
	loans := api.Group("/loans")
	loans.Use(sessionMiddleware.Authenticate())
	loans.Use(middleware.RateLimitMiddleware(rateLimiter))
	loans.POST("", loanHandler.CreateLoan)
	loans.GET("", loanHandler.GetLoans)
	loans.POST("/preview", loanHandler.PreviewEMI)
	loans.GET("/:id", loanHandler.GetLoanStatement)
	loans.GET("/:id/statement.pdf", exportHandler.DownloadStatement)
	loans.POST("/:id/payments", paymentHandler.RecordPayment)

	// Admin routes (protected, admin only)
	admin := api.Group("/admin")
	admin.Use(sessionMiddleware.Authenticate())
	admin.Use(middleware.RequireAdmin())
	admin.GET("/loans", loanHandler.GetAllLoans)

	// WebSocket endpoint (session validated in-handler during the handshake)
	e.GET("/ws", wsHandler.HandleWS)
}
