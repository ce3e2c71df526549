// Package ledger holds the pure calculation core: EMI computation and
// payment-history reconciliation. Nothing in this package performs I/O or
// holds state, so every function is safe for unsynchronized concurrent use.
package ledger

import (
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// ComputeEMI returns the fixed monthly installment for the given terms
// using the reducing-balance annuity formula:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate (annualRatePercent / 12 / 100) and n the term
// in months. A zero rate degenerates to P / n. The result is rounded to 2
// decimal places, half away from zero; that single rounding is the only one
// applied, intermediate steps run at shopspring's 16-digit division
// precision so compounding error stays well below a cent.
func ComputeEMI(terms domain.LoanTerms) (decimal.Decimal, error) {
	if err := terms.Validate(); err != nil {
		return decimal.Decimal{}, err
	}

	n := decimal.NewFromInt(int64(terms.TermMonths))

	monthlyRate := terms.AnnualRatePercent.Div(twelve).Div(hundred)
	if monthlyRate.IsZero() {
		return terms.Principal.Div(n).Round(2), nil
	}

	// (1+r)^n is exact for an integer exponent on a terminating decimal.
	compound := decimal.NewFromInt(1).Add(monthlyRate).Pow(n)

	numerator := terms.Principal.Mul(monthlyRate).Mul(compound)
	denominator := compound.Sub(decimal.NewFromInt(1))

	return numerator.Div(denominator).Round(2), nil
}
