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
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents the record payment request body
type RecordPaymentRequest struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
	PhoneNumber string `json:"phoneNumber,omitempty"` // Optional: for SMS confirmation
}

// RecordPaymentResponse returns the created payment plus the rebuilt
// balance summary so the client can refresh in one round trip
type RecordPaymentResponse struct {
	Payment            PaymentResponse `json:"payment"`
	ScheduledTotal     string          `json:"scheduledTotal"`
	TotalPaid          string          `json:"totalPaid"`
	OutstandingBalance string          `json:"outstandingBalance"`
	PaidOff            bool            `json:"paidOff"`
}

// RecordPayment handles POST /api/v1/loans/:id/payments
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	loanID, err := parseLoanID(c)
	if err != nil {
		return err
	}

	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return NewValidationError(c, "Invalid payment date", []ValidationError{
			{Field: "paymentDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	payment, statement, err := h.paymentService.RecordPayment(
		c.Request().Context(),
		middleware.GetBorrowerID(c), middleware.GetRole(c),
		loanID, amount, paymentDate, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return NewNotFoundError(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not your loan")
		case errors.Is(err, domain.ErrPaymentAmountInvalid):
			return NewValidationError(c, "Payment amount must be positive", []ValidationError{
				{Field: "amount", Message: "Must be greater than zero"},
			})
		case errors.Is(err, domain.ErrPaymentDateRequired):
			return NewValidationError(c, "Payment date is required", []ValidationError{
				{Field: "paymentDate", Message: "Must not be empty"},
			})
		default:
			log.Error().Err(err).Msg("Failed to record payment")
			return NewInternalError(c, "Failed to record payment")
		}
	}

	return c.JSON(http.StatusCreated, RecordPaymentResponse{
		Payment: PaymentResponse{
			ID:          payment.ID,
			LoanID:      payment.LoanID,
			Amount:      payment.Amount.StringFixed(2),
			PaymentDate: payment.PaymentDate.Format("2006-01-02"),
			CreatedAt:   payment.CreatedAt.Format(time.RFC3339),
		},
		ScheduledTotal:     statement.ScheduledTotal.StringFixed(2),
		TotalPaid:          statement.TotalPaid.StringFixed(2),
		OutstandingBalance: statement.OutstandingBalance.StringFixed(2),
		PaidOff:            statement.PaidOff(),
	})
}
