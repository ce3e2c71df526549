package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/middleware"
	"github.com/lendledger/lendledger-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Principal   string `json:"principal"`
	AnnualRate  string `json:"annualRate"`
	TermMonths  int32  `json:"termMonths"`
	PhoneNumber string `json:"phoneNumber,omitempty"` // Optional: for SMS confirmation
}

// PreviewEMIRequest represents the EMI preview request body
type PreviewEMIRequest struct {
	Principal  string `json:"principal"`
	AnnualRate string `json:"annualRate"`
	TermMonths int32  `json:"termMonths"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID         int32  `json:"id"`
	BorrowerID int32  `json:"borrowerId"`
	Principal  string `json:"principal"`
	AnnualRate string `json:"annualRate"`
	TermMonths int32  `json:"termMonths"`
	EMI        string `json:"emi"`
	CreatedAt  string `json:"createdAt"`
}

// LoanWithBorrowerResponse represents a loan with borrower details for the
// admin listing
type LoanWithBorrowerResponse struct {
	LoanResponse
	BorrowerName  string `json:"borrowerName"`
	BorrowerEmail string `json:"borrowerEmail"`
}

// PreviewEMIResponse represents the EMI preview calculation result
type PreviewEMIResponse struct {
	EMI            string `json:"emi"`
	ScheduledTotal string `json:"scheduledTotal"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                  int32  `json:"id"`
	LoanID              int32  `json:"loanId"`
	Amount              string `json:"amount"`
	PaymentDate         string `json:"paymentDate"`
	RunningBalanceAfter string `json:"runningBalanceAfter,omitempty"`
	CreatedAt           string `json:"createdAt"`
}

// StatementResponse represents a reconciled loan statement
type StatementResponse struct {
	Loan               LoanResponse      `json:"loan"`
	ScheduledTotal     string            `json:"scheduledTotal"`
	TotalPaid          string            `json:"totalPaid"`
	OutstandingBalance string            `json:"outstandingBalance"`
	PaidOff            bool              `json:"paidOff"`
	Payments           []PaymentResponse `json:"payments"`
}

func toLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:         loan.ID,
		BorrowerID: loan.BorrowerID,
		Principal:  loan.Terms.Principal.StringFixed(2),
		AnnualRate: loan.Terms.AnnualRatePercent.String(),
		TermMonths: loan.Terms.TermMonths,
		EMI:        loan.EMI.StringFixed(2),
		CreatedAt:  loan.CreatedAt.Format(time.RFC3339),
	}
}

func toStatementResponse(loan *domain.Loan, statement *domain.Statement) StatementResponse {
	payments := make([]PaymentResponse, 0, len(statement.Entries))
	for _, entry := range statement.Entries {
		payments = append(payments, PaymentResponse{
			ID:                  entry.Payment.ID,
			LoanID:              entry.Payment.LoanID,
			Amount:              entry.Payment.Amount.StringFixed(2),
			PaymentDate:         entry.Payment.PaymentDate.Format("2006-01-02"),
			RunningBalanceAfter: entry.RunningBalanceAfter.StringFixed(2),
			CreatedAt:           entry.Payment.CreatedAt.Format(time.RFC3339),
		})
	}

	return StatementResponse{
		Loan:               toLoanResponse(loan),
		ScheduledTotal:     statement.ScheduledTotal.StringFixed(2),
		TotalPaid:          statement.TotalPaid.StringFixed(2),
		OutstandingBalance: statement.OutstandingBalance.StringFixed(2),
		PaidOff:            statement.PaidOff(),
		Payments:           payments,
	}
}

// parseTerms converts the string fields of a request into loan terms
func parseTerms(c echo.Context, principal, annualRate string, termMonths int32) (domain.LoanTerms, error) {
	p, err := decimal.NewFromString(principal)
	if err != nil {
		return domain.LoanTerms{}, NewValidationError(c, "Invalid principal", []ValidationError{
			{Field: "principal", Message: "Must be a valid decimal number"},
		})
	}

	rate := decimal.Zero
	if annualRate != "" {
		rate, err = decimal.NewFromString(annualRate)
		if err != nil {
			return domain.LoanTerms{}, NewValidationError(c, "Invalid annual rate", []ValidationError{
				{Field: "annualRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	return domain.LoanTerms{
		Principal:         p,
		AnnualRatePercent: rate,
		TermMonths:        termMonths,
	}, nil
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	borrowerID := middleware.GetBorrowerID(c)

	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	terms, err := parseTerms(c, req.Principal, req.AnnualRate, req.TermMonths)
	if err != nil {
		return err
	}

	loan, err := h.loanService.CreateLoan(c.Request().Context(), borrowerID, terms, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLoanTerms) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to create loan")
		return NewInternalError(c, "Failed to create loan")
	}

	return c.JSON(http.StatusCreated, toLoanResponse(loan))
}

// PreviewEMI handles POST /api/v1/loans/preview
func (h *LoanHandler) PreviewEMI(c echo.Context) error {
	var req PreviewEMIRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	terms, err := parseTerms(c, req.Principal, req.AnnualRate, req.TermMonths)
	if err != nil {
		return err
	}

	emi, err := h.loanService.PreviewEMI(terms)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLoanTerms) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to preview EMI")
		return NewInternalError(c, "Failed to preview EMI")
	}

	scheduledTotal := emi.Mul(decimal.NewFromInt(int64(terms.TermMonths))).Round(2)
	return c.JSON(http.StatusOK, PreviewEMIResponse{
		EMI:            emi.StringFixed(2),
		ScheduledTotal: scheduledTotal.StringFixed(2),
	})
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	borrowerID := middleware.GetBorrowerID(c)

	loans, err := h.loanService.GetLoansByBorrower(borrowerID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list loans")
		return NewInternalError(c, "Failed to list loans")
	}

	responses := make([]LoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, toLoanResponse(loan))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetAllLoans handles GET /api/v1/admin/loans
func (h *LoanHandler) GetAllLoans(c echo.Context) error {
	loans, err := h.loanService.GetAllLoans()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list all loans")
		return NewInternalError(c, "Failed to list loans")
	}

	responses := make([]LoanWithBorrowerResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, LoanWithBorrowerResponse{
			LoanResponse:  toLoanResponse(&loan.Loan),
			BorrowerName:  loan.BorrowerName,
			BorrowerEmail: loan.BorrowerEmail,
		})
	}
	return c.JSON(http.StatusOK, responses)
}

// GetLoanStatement handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoanStatement(c echo.Context) error {
	loanID, err := parseLoanID(c)
	if err != nil {
		return err
	}

	loan, statement, err := h.loanService.GetLoanStatement(
		middleware.GetBorrowerID(c), middleware.GetRole(c), loanID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return NewNotFoundError(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not your loan")
		case errors.Is(err, domain.ErrInvalidLoanState):
			log.Error().Err(err).Int32("loan_id", loanID).Msg("Stored loan fails reconciliation preconditions")
			return NewInternalError(c, "Loan record is inconsistent")
		default:
			log.Error().Err(err).Msg("Failed to build statement")
			return NewInternalError(c, "Failed to build statement")
		}
	}

	return c.JSON(http.StatusOK, toStatementResponse(loan, statement))
}

// parseLoanID extracts and validates the :id path parameter
func parseLoanID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, NewValidationError(c, "Invalid loan ID", []ValidationError{
			{Field: "id", Message: "Must be a positive integer"},
		})
	}
	return int32(id), nil
}
