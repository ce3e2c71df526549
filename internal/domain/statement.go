package domain

import "github.com/shopspring/decimal"

// StatementEntry is one payment with the balance remaining after it was
// applied.
type StatementEntry struct {
	Payment             *Payment        `json:"payment"`
	RunningBalanceAfter decimal.Decimal `json:"runningBalanceAfter"`
}

// Statement is the reconciled view of a loan's ledger. It is derived on
// demand and never persisted, so it cannot go stale independent of its
// inputs. OutstandingBalance is signed: an overpaid loan reports a negative
// balance rather than clamping at zero, and "paid off" means <= 0.
type Statement struct {
	LoanID             int32            `json:"loanId"`
	ScheduledTotal     decimal.Decimal  `json:"scheduledTotal"`
	TotalPaid          decimal.Decimal  `json:"totalPaid"`
	OutstandingBalance decimal.Decimal  `json:"outstandingBalance"`
	Entries            []StatementEntry `json:"entries"`
}

// PaidOff reports whether the scheduled total has been fully covered.
func (s *Statement) PaidOff() bool {
	return s.OutstandingBalance.LessThanOrEqual(decimal.Zero)
}
