package report

import (
	"strings"
	"testing"
	"time"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementDoc(entries []domain.StatementEntry, outstanding string) StatementDocument {
	return StatementDocument{
		Loan: &domain.Loan{
			ID:         7,
			BorrowerID: 1,
			Terms: domain.LoanTerms{
				Principal:         decimal.NewFromInt(10000),
				AnnualRatePercent: decimal.NewFromInt(12),
				TermMonths:        12,
			},
			EMI:       decimal.RequireFromString("888.49"),
			CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		Borrower: &domain.Borrower{
			ID:   1,
			Name: "Alice",
		},
		Statement: &domain.Statement{
			LoanID:             7,
			ScheduledTotal:     decimal.RequireFromString("10661.88"),
			TotalPaid:          decimal.RequireFromString("888.49"),
			OutstandingBalance: decimal.RequireFromString(outstanding),
			Entries:            entries,
		},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStatementHTML(t *testing.T) {
	entries := []domain.StatementEntry{
		{
			Payment: &domain.Payment{
				ID:          1,
				LoanID:      7,
				Amount:      decimal.RequireFromString("888.49"),
				PaymentDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
				CreatedAt:   time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
			},
			RunningBalanceAfter: decimal.RequireFromString("9773.39"),
		},
	}

	html, err := StatementHTML(statementDoc(entries, "9773.39"))
	require.NoError(t, err)

	assert.Contains(t, html, "Loan Statement — #7")
	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "10000.00")
	assert.Contains(t, html, "888.49")
	assert.Contains(t, html, "10661.88")
	assert.Contains(t, html, "9773.39")
	assert.Contains(t, html, "2026-02-01")
	assert.Contains(t, html, "Generated at 2026-03-01 12:00")
	assert.NotContains(t, html, "No payments recorded.")
}

func TestStatementHTML_NoPayments(t *testing.T) {
	html, err := StatementHTML(statementDoc(nil, "10661.88"))
	require.NoError(t, err)

	assert.Contains(t, html, "No payments recorded.")
}

func TestStatementHTML_NegativeBalanceFlagged(t *testing.T) {
	entries := []domain.StatementEntry{
		{
			Payment: &domain.Payment{
				ID:          1,
				LoanID:      7,
				Amount:      decimal.RequireFromString("10861.88"),
				PaymentDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
				CreatedAt:   time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
			},
			RunningBalanceAfter: decimal.RequireFromString("-200"),
		},
	}

	html, err := StatementHTML(statementDoc(entries, "-200"))
	require.NoError(t, err)

	assert.Contains(t, html, "-200.00")
	assert.True(t, strings.Contains(html, "negative"), "overpaid balances should carry the negative class")
}

func TestStatementHTML_EscapesBorrowerName(t *testing.T) {
	doc := statementDoc(nil, "10661.88")
	doc.Borrower.Name = `<script>alert("x")</script>`

	html, err := StatementHTML(doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
}
