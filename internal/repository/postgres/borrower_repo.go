package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendledger/lendledger-backend/internal/domain"
)

// BorrowerRepository implements domain.BorrowerRepository using PostgreSQL
type BorrowerRepository struct {
	pool *pgxpool.Pool
}

// NewBorrowerRepository creates a new BorrowerRepository
func NewBorrowerRepository(pool *pgxpool.Pool) *BorrowerRepository {
	return &BorrowerRepository{pool: pool}
}

// Create inserts a new borrower. A duplicate email maps to
// domain.ErrBorrowerEmailTaken.
func (r *BorrowerRepository) Create(borrower *domain.Borrower) (*domain.Borrower, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO borrowers (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		borrower.Name, borrower.Email, borrower.PasswordHash, string(borrower.Role),
	)

	created := *borrower
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrBorrowerEmailTaken
		}
		return nil, err
	}
	return &created, nil
}

// GetByID retrieves a borrower by ID
func (r *BorrowerRepository) GetByID(id int32) (*domain.Borrower, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM borrowers
		WHERE id = $1`,
		id,
	)
	return scanBorrower(row)
}

// GetByEmail retrieves a borrower by email and role
func (r *BorrowerRepository) GetByEmail(email string, role domain.Role) (*domain.Borrower, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM borrowers
		WHERE email = $1 AND role = $2`,
		email, string(role),
	)
	return scanBorrower(row)
}

func scanBorrower(row pgx.Row) (*domain.Borrower, error) {
	var b domain.Borrower
	var role string
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.PasswordHash, &role, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBorrowerNotFound
		}
		return nil, err
	}
	b.Role = domain.Role(role)
	return &b, nil
}
