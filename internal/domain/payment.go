package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentAmountInvalid  = errors.New("payment amount must be positive")
	ErrPaymentLoanIDRequired = errors.New("loan ID is required")
	ErrPaymentDateRequired   = errors.New("payment date is required")
)

// Payment is an amount recorded against a loan. Immutable after creation;
// there is no edit or void.
type Payment struct {
	ID          int32           `json:"id"`
	LoanID      int32           `json:"loanId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (p *Payment) Validate() error {
	if p.LoanID <= 0 {
		return ErrPaymentLoanIDRequired
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentAmountInvalid
	}
	if p.PaymentDate.IsZero() {
		return ErrPaymentDateRequired
	}
	return nil
}

// Before reports whether p sorts ahead of other in statement order:
// payment date, then created-at, then ID. The full chain makes the order
// total, so reconciliation is deterministic for any input ordering.
func (p *Payment) Before(other *Payment) bool {
	if !p.PaymentDate.Equal(other.PaymentDate) {
		return p.PaymentDate.Before(other.PaymentDate)
	}
	if !p.CreatedAt.Equal(other.CreatedAt) {
		return p.CreatedAt.Before(other.CreatedAt)
	}
	return p.ID < other.ID
}

// PaymentRepository fetches payments in any order; the ledger re-sorts.
type PaymentRepository interface {
	Create(payment *Payment) (*Payment, error)
	GetByLoanID(loanID int32) ([]*Payment, error)
}
