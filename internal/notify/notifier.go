// Package notify delivers SMS confirmations for loan and payment events.
// Delivery is best-effort: it runs strictly after the ledger work has been
// committed and a failure is logged, never propagated.
package notify

import (
	"context"
	"strconv"
	"strings"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Notifier sends SMS notifications to borrowers
type Notifier interface {
	SendLoanCreated(ctx context.Context, phone, borrowerName string, loan *domain.Loan) error
	SendPaymentRecorded(ctx context.Context, phone, borrowerName string, loanID int32, amount, remainingBalance decimal.Decimal) error
}

// NoopNotifier discards all notifications. Used when SMS is disabled.
type NoopNotifier struct{}

func (NoopNotifier) SendLoanCreated(ctx context.Context, phone, borrowerName string, loan *domain.Loan) error {
	return nil
}

func (NoopNotifier) SendPaymentRecorded(ctx context.Context, phone, borrowerName string, loanID int32, amount, remainingBalance decimal.Decimal) error {
	return nil
}

// loanCreatedBody builds the SMS text for a newly created loan
func loanCreatedBody(borrowerName string, loan *domain.Loan) string {
	var b strings.Builder
	b.WriteString("Hello " + borrowerName + ",\n\n")
	b.WriteString("Your loan has been successfully created!\n\n")
	b.WriteString("Loan Details:\n")
	b.WriteString("- Principal: " + formatAmount(loan.Terms.Principal) + "\n")
	b.WriteString("- Interest Rate: " + loan.Terms.AnnualRatePercent.String() + "% per annum\n")
	b.WriteString("- Loan Term: " + itoa(loan.Terms.TermMonths) + " months\n")
	b.WriteString("- Monthly EMI: " + formatAmount(loan.EMI) + "\n\n")
	b.WriteString("Thank you for using our loan service.")
	return b.String()
}

// paymentRecordedBody builds the SMS text for a recorded payment
func paymentRecordedBody(borrowerName string, loanID int32, amount, remainingBalance decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("Hello " + borrowerName + ",\n\n")
	b.WriteString("Your payment has been recorded successfully!\n\n")
	b.WriteString("Payment Details:\n")
	b.WriteString("- Loan ID: " + itoa(loanID) + "\n")
	b.WriteString("- Amount Paid: " + formatAmount(amount) + "\n")
	b.WriteString("- Remaining Balance: " + formatAmount(remainingBalance) + "\n\n")
	b.WriteString("Thank you!")
	return b.String()
}

// formatAmount renders a money value with thousands separators and two
// decimal places, e.g. 12345.6 -> "12,345.60".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	dot := strings.Index(s, ".")
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}

func itoa(n int32) string {
	return strconv.FormatInt(int64(n), 10)
}
