package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/repository/redis"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and session lifecycle
type AuthService struct {
	borrowerRepo domain.BorrowerRepository
	sessions     redis.SessionStore
}

// NewAuthService creates a new AuthService
func NewAuthService(borrowerRepo domain.BorrowerRepository, sessions redis.SessionStore) *AuthService {
	return &AuthService{
		borrowerRepo: borrowerRepo,
		sessions:     sessions,
	}
}

// Register creates a new borrower account with the user role. Admin accounts
// are provisioned out of band, never through the public endpoint.
func (s *AuthService) Register(name, email, password string) (*domain.Borrower, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, domain.ErrBorrowerNameEmpty
	}
	if email == "" {
		return nil, domain.ErrBorrowerEmailEmpty
	}
	if password == "" {
		return nil, domain.ErrBorrowerPasswordEmpty
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.borrowerRepo.Create(&domain.Borrower{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
}

// Login verifies credentials for the requested role and opens a session.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string, role domain.Role) (*redis.Session, *domain.Borrower, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	borrower, err := s.borrowerRepo.GetByEmail(email, role)
	if err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(borrower.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(borrower.ID, borrower.Role)
	if err != nil {
		return nil, nil, err
	}
	return session, borrower, nil
}

// Logout discards the session. Unknown session IDs are ignored.
func (s *AuthService) Logout(sessionID uuid.UUID) error {
	return s.sessions.Delete(sessionID)
}

// Me returns the borrower behind an authenticated session
func (s *AuthService) Me(borrowerID int32) (*domain.Borrower, error) {
	return s.borrowerRepo.GetByID(borrowerID)
}
