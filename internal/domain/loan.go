package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrLoanNotFound = errors.New("loan not found")

// LoanTerms are the inputs to EMI calculation. Immutable once the loan is
// created.
type LoanTerms struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TermMonths        int32           `json:"termMonths"`
}

// Validate checks the terms against the EMI calculator's contract.
// A zero rate is valid (interest-free loan); range policy beyond these
// bounds is a caller concern.
func (t LoanTerms) Validate() error {
	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return ErrLoanPrincipalInvalid
	}
	if t.TermMonths < 1 {
		return ErrLoanTermInvalid
	}
	if t.AnnualRatePercent.IsNegative() {
		return ErrLoanRateInvalid
	}
	return nil
}

// Loan is a fixed-rate, fixed-term amortizing loan. EMI is computed once at
// creation and persisted; balance reconciliation always reads the stored
// EMI rather than recomputing it from the terms, so a later change to the
// rounding rules cannot drift historical loans.
type Loan struct {
	ID         int32           `json:"id"`
	BorrowerID int32           `json:"borrowerId"`
	Terms      LoanTerms       `json:"terms"`
	EMI        decimal.Decimal `json:"emi"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// LoanWithBorrower pairs a loan with its borrower's display fields for
// admin listings.
type LoanWithBorrower struct {
	Loan
	BorrowerName  string `json:"borrowerName"`
	BorrowerEmail string `json:"borrowerEmail"`
}

type LoanRepository interface {
	Create(loan *Loan) (*Loan, error)
	GetByID(id int32) (*Loan, error)
	GetByBorrower(borrowerID int32) ([]*Loan, error)
	GetAllWithBorrower() ([]*LoanWithBorrower, error)
}
