package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendledger/lendledger-backend/internal/domain"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a new payment record
func (r *PaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(payment.Amount)
	if err != nil {
		return nil, err
	}

	paymentDate := pgtype.Date{Time: payment.PaymentDate, Valid: true}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (loan_id, amount, payment_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		payment.LoanID, amount, paymentDate,
	)

	created := *payment
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByLoanID retrieves all payments for a loan. No ordering is guaranteed
// here; the ledger sorts deterministically before reconciling.
func (r *PaymentRepository) GetByLoanID(loanID int32) ([]*domain.Payment, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, amount, payment_date, created_at
		FROM payments
		WHERE loan_id = $1`,
		loanID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var amount pgtype.Numeric
	var paymentDate pgtype.Date
	err := row.Scan(&p.ID, &p.LoanID, &amount, &paymentDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Amount = pgNumericToDecimal(amount)
	p.PaymentDate = paymentDate.Time
	return &p, nil
}
