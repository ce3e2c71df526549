package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoan(emi string, months int32) *domain.Loan {
	return &domain.Loan{
		ID:         1,
		BorrowerID: 7,
		Terms: domain.LoanTerms{
			Principal:         decimal.NewFromInt(10000),
			AnnualRatePercent: decimal.NewFromInt(12),
			TermMonths:        months,
		},
		EMI: decimal.RequireFromString(emi),
	}
}

func payment(id int32, amount string, date time.Time, createdAt time.Time) *domain.Payment {
	return &domain.Payment{
		ID:          id,
		LoanID:      1,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: date,
		CreatedAt:   createdAt,
	}
}

func TestBuildStatement_NoPayments(t *testing.T) {
	loan := testLoan("888.49", 12)

	stmt, err := BuildStatement(loan, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), stmt.LoanID)
	assert.True(t, stmt.ScheduledTotal.Equal(decimal.RequireFromString("10661.88")),
		"scheduled total: %s", stmt.ScheduledTotal)
	assert.True(t, stmt.TotalPaid.IsZero())
	assert.True(t, stmt.OutstandingBalance.Equal(decimal.RequireFromString("10661.88")))
	assert.Empty(t, stmt.Entries)
	assert.False(t, stmt.PaidOff())
}

func TestBuildStatement_RunningBalances(t *testing.T) {
	loan := testLoan("888.49", 12)
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	payments := []*domain.Payment{
		payment(1, "888.49", base, base),
		payment(2, "888.49", base.AddDate(0, 1, 0), base.AddDate(0, 1, 0)),
		payment(3, "500.00", base.AddDate(0, 2, 0), base.AddDate(0, 2, 0)),
	}

	stmt, err := BuildStatement(loan, payments)
	require.NoError(t, err)

	require.Len(t, stmt.Entries, 3)
	assert.True(t, stmt.TotalPaid.Equal(decimal.RequireFromString("2276.98")))
	assert.True(t, stmt.Entries[0].RunningBalanceAfter.Equal(decimal.RequireFromString("9773.39")))
	assert.True(t, stmt.Entries[1].RunningBalanceAfter.Equal(decimal.RequireFromString("8884.90")))
	assert.True(t, stmt.Entries[2].RunningBalanceAfter.Equal(decimal.RequireFromString("8384.90")))
	assert.True(t, stmt.OutstandingBalance.Equal(stmt.Entries[2].RunningBalanceAfter))
}

func TestBuildStatement_Overpayment(t *testing.T) {
	// scheduledTotal=1000, single payment of 1200 -> balance -200, no error
	loan := testLoan("100.00", 10)
	now := time.Now()

	stmt, err := BuildStatement(loan, []*domain.Payment{
		payment(1, "1200.00", now, now),
	})
	require.NoError(t, err)

	assert.True(t, stmt.OutstandingBalance.Equal(decimal.RequireFromString("-200")),
		"outstanding: %s", stmt.OutstandingBalance)
	assert.True(t, stmt.PaidOff())
}

func TestBuildStatement_ExactlyPaidOff(t *testing.T) {
	loan := testLoan("100.00", 10)
	now := time.Now()

	stmt, err := BuildStatement(loan, []*domain.Payment{
		payment(1, "1000.00", now, now),
	})
	require.NoError(t, err)

	assert.True(t, stmt.OutstandingBalance.IsZero())
	assert.True(t, stmt.PaidOff())
}

func TestBuildStatement_FutureDatedPaymentIncluded(t *testing.T) {
	loan := testLoan("100.00", 10)
	future := time.Now().AddDate(1, 0, 0)

	stmt, err := BuildStatement(loan, []*domain.Payment{
		payment(1, "300.00", future, time.Now()),
	})
	require.NoError(t, err)

	assert.True(t, stmt.TotalPaid.Equal(decimal.RequireFromString("300")))
}

func TestBuildStatement_SortsByDateThenCreatedThenID(t *testing.T) {
	loan := testLoan("100.00", 10)
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)

	payments := []*domain.Payment{
		payment(5, "50.00", day2, evening),
		payment(4, "40.00", day2, morning),
		payment(9, "30.00", day1, evening),
		// same date and created-at as ID 5: ID breaks the tie
		payment(3, "20.00", day2, evening),
	}

	stmt, err := BuildStatement(loan, payments)
	require.NoError(t, err)

	require.Len(t, stmt.Entries, 4)
	assert.Equal(t, int32(9), stmt.Entries[0].Payment.ID)
	assert.Equal(t, int32(4), stmt.Entries[1].Payment.ID)
	assert.Equal(t, int32(3), stmt.Entries[2].Payment.ID)
	assert.Equal(t, int32(5), stmt.Entries[3].Payment.ID)
}

func TestBuildStatement_DeterministicForAnyInputOrder(t *testing.T) {
	loan := testLoan("250.00", 24)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	payments := make([]*domain.Payment, 0, 20)
	for i := int32(1); i <= 20; i++ {
		payments = append(payments, payment(i, "250.00", base.AddDate(0, int(i%6), 0), base.Add(time.Duration(i)*time.Hour)))
	}

	reference, err := BuildStatement(loan, payments)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]*domain.Payment, len(payments))
		copy(shuffled, payments)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		stmt, err := BuildStatement(loan, shuffled)
		require.NoError(t, err)

		require.Len(t, stmt.Entries, len(reference.Entries))
		for i := range stmt.Entries {
			assert.Equal(t, reference.Entries[i].Payment.ID, stmt.Entries[i].Payment.ID)
			assert.True(t, reference.Entries[i].RunningBalanceAfter.Equal(stmt.Entries[i].RunningBalanceAfter))
		}
		assert.True(t, reference.OutstandingBalance.Equal(stmt.OutstandingBalance))
	}
}

func TestBuildStatement_DoesNotMutateInput(t *testing.T) {
	loan := testLoan("100.00", 10)
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	payments := []*domain.Payment{
		payment(2, "50.00", day2, day2),
		payment(1, "40.00", day1, day1),
	}

	_, err := BuildStatement(loan, payments)
	require.NoError(t, err)

	assert.Equal(t, int32(2), payments[0].ID, "input slice order must be preserved")
	assert.Equal(t, int32(1), payments[1].ID)
}

func TestBuildStatement_InvalidLoanState(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		loan *domain.Loan
	}{
		{"zero emi", testLoan("0", 12)},
		{"negative emi", testLoan("-10", 12)},
		{"zero term", testLoan("100.00", 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildStatement(tc.loan, []*domain.Payment{payment(1, "100.00", now, now)})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidLoanState)
		})
	}
}
