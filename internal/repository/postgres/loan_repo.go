package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendledger/lendledger-backend/internal/domain"
)

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create inserts a new loan. The EMI is stored as computed at creation time
// and is never recomputed from the terms afterwards.
func (r *LoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	ctx := context.Background()

	principal, err := decimalToPgNumeric(loan.Terms.Principal)
	if err != nil {
		return nil, err
	}
	annualRate, err := decimalToPgNumeric(loan.Terms.AnnualRatePercent)
	if err != nil {
		return nil, err
	}
	emi, err := decimalToPgNumeric(loan.EMI)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO loans (borrower_id, principal, annual_rate, term_months, emi)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		loan.BorrowerID, principal, annualRate, loan.Terms.TermMonths, emi,
	)

	created := *loan
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByID retrieves a loan by its ID
func (r *LoanRepository) GetByID(id int32) (*domain.Loan, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, borrower_id, principal, annual_rate, term_months, emi, created_at
		FROM loans
		WHERE id = $1`,
		id,
	)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetByBorrower retrieves all loans for a borrower, newest first
func (r *LoanRepository) GetByBorrower(borrowerID int32) ([]*domain.Loan, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, borrower_id, principal, annual_rate, term_months, emi, created_at
		FROM loans
		WHERE borrower_id = $1
		ORDER BY created_at DESC`,
		borrowerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// GetAllWithBorrower retrieves every loan joined with borrower info, newest
// first. Used by the admin listing.
func (r *LoanRepository) GetAllWithBorrower() ([]*domain.LoanWithBorrower, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.borrower_id, l.principal, l.annual_rate, l.term_months, l.emi, l.created_at,
		       b.name, b.email
		FROM loans l
		JOIN borrowers b ON l.borrower_id = b.id
		ORDER BY l.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.LoanWithBorrower
	for rows.Next() {
		var lw domain.LoanWithBorrower
		var principal, annualRate, emi pgtype.Numeric
		err := rows.Scan(&lw.ID, &lw.BorrowerID, &principal, &annualRate, &lw.Terms.TermMonths,
			&emi, &lw.CreatedAt, &lw.BorrowerName, &lw.BorrowerEmail)
		if err != nil {
			return nil, err
		}
		lw.Terms.Principal = pgNumericToDecimal(principal)
		lw.Terms.AnnualRatePercent = pgNumericToDecimal(annualRate)
		lw.EMI = pgNumericToDecimal(emi)
		loans = append(loans, &lw)
	}
	return loans, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	var principal, annualRate, emi pgtype.Numeric
	err := row.Scan(&loan.ID, &loan.BorrowerID, &principal, &annualRate,
		&loan.Terms.TermMonths, &emi, &loan.CreatedAt)
	if err != nil {
		return nil, err
	}
	loan.Terms.Principal = pgNumericToDecimal(principal)
	loan.Terms.AnnualRatePercent = pgNumericToDecimal(annualRate)
	loan.EMI = pgNumericToDecimal(emi)
	return &loan, nil
}
