package ledger

import (
	"sort"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildStatement reconciles a loan's payment history into a statement:
// scheduled total (stored EMI times term), total paid, the signed
// outstanding balance, and a per-payment entry list with running balances.
//
// Payments may arrive in any order; they are sorted by payment date, then
// created-at, then ID, without mutating the caller's slice. Two calls with
// the same payment set always produce identical statements, so it is safe
// to rebuild on every read.
//
// Overpayment yields a negative balance on purpose: the caller decides
// whether to present it as "overpaid" or clamp for display. Future-dated
// payments are included; date-versus-now policy belongs to the caller.
func BuildStatement(loan *domain.Loan, payments []*domain.Payment) (*domain.Statement, error) {
	if loan.EMI.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrLoanEMIInvalid
	}
	if loan.Terms.TermMonths < 1 {
		return nil, domain.ErrLoanTermStateInvalid
	}

	scheduledTotal := loan.EMI.Mul(decimal.NewFromInt(int64(loan.Terms.TermMonths))).Round(2)

	sorted := make([]*domain.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	totalPaid := decimal.Zero
	entries := make([]domain.StatementEntry, 0, len(sorted))
	for _, p := range sorted {
		totalPaid = totalPaid.Add(p.Amount)
		entries = append(entries, domain.StatementEntry{
			Payment:             p,
			RunningBalanceAfter: scheduledTotal.Sub(totalPaid),
		})
	}

	return &domain.Statement{
		LoanID:             loan.ID,
		ScheduledTotal:     scheduledTotal,
		TotalPaid:          totalPaid,
		OutstandingBalance: scheduledTotal.Sub(totalPaid),
		Entries:            entries,
	}, nil
}
