package service

import (
	"context"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/ledger"
	"github.com/lendledger/lendledger-backend/internal/notify"
	"github.com/lendledger/lendledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LoanService handles loan creation, listing and statement assembly
type LoanService struct {
	loanRepo       domain.LoanRepository
	paymentRepo    domain.PaymentRepository
	borrowerRepo   domain.BorrowerRepository
	notifier       notify.Notifier
	eventPublisher websocket.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(loanRepo domain.LoanRepository, paymentRepo domain.PaymentRepository, borrowerRepo domain.BorrowerRepository, notifier notify.Notifier) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
		borrowerRepo: borrowerRepo,
		notifier:     notifier,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LoanService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *LoanService) publishEvent(borrowerID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(borrowerID, event)
	}
}

// PreviewEMI computes the monthly installment for prospective terms without
// creating anything
func (s *LoanService) PreviewEMI(terms domain.LoanTerms) (decimal.Decimal, error) {
	return ledger.ComputeEMI(terms)
}

// CreateLoan validates the terms, computes the EMI once, and persists the
// loan. The EMI stored here is what every later statement reads back.
//
// phone is optional; when present, a confirmation SMS is sent best-effort
// after the loan is committed.
func (s *LoanService) CreateLoan(ctx context.Context, borrowerID int32, terms domain.LoanTerms, phone string) (*domain.Loan, error) {
	emi, err := ledger.ComputeEMI(terms)
	if err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.Create(&domain.Loan{
		BorrowerID: borrowerID,
		Terms:      terms,
		EMI:        emi,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(borrowerID, websocket.LoanCreated(loan))

	if phone != "" {
		borrower, berr := s.borrowerRepo.GetByID(borrowerID)
		if berr != nil {
			log.Warn().Err(berr).Int32("loan_id", loan.ID).Msg("Skipping loan SMS, borrower lookup failed")
			return loan, nil
		}
		if serr := s.notifier.SendLoanCreated(ctx, phone, borrower.Name, loan); serr != nil {
			log.Warn().Err(serr).Int32("loan_id", loan.ID).Msg("Failed to send loan created SMS")
		}
	}

	return loan, nil
}

// GetLoansByBorrower lists a borrower's own loans
func (s *LoanService) GetLoansByBorrower(borrowerID int32) ([]*domain.Loan, error) {
	return s.loanRepo.GetByBorrower(borrowerID)
}

// GetAllLoans lists every loan with its borrower, for the admin dashboard
func (s *LoanService) GetAllLoans() ([]*domain.LoanWithBorrower, error) {
	return s.loanRepo.GetAllWithBorrower()
}

// GetLoanStatement loads a loan and reconciles its payment history into a
// statement. Access is restricted to the loan's owner or an admin.
func (s *LoanService) GetLoanStatement(actorID int32, actorRole domain.Role, loanID int32) (*domain.Loan, *domain.Statement, error) {
	loan, err := s.authorizeLoan(actorID, actorRole, loanID)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.paymentRepo.GetByLoanID(loanID)
	if err != nil {
		return nil, nil, err
	}

	statement, err := ledger.BuildStatement(loan, payments)
	if err != nil {
		return nil, nil, err
	}
	return loan, statement, nil
}

// authorizeLoan fetches the loan and enforces owner-or-admin access
func (s *LoanService) authorizeLoan(actorID int32, actorRole domain.Role, loanID int32) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(loanID)
	if err != nil {
		return nil, err
	}
	if loan.BorrowerID != actorID && actorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return loan, nil
}
