package service

import (
	"context"
	"time"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/ledger"
	"github.com/lendledger/lendledger-backend/internal/notify"
	"github.com/lendledger/lendledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentService records payments against loans
type PaymentService struct {
	loanRepo       domain.LoanRepository
	paymentRepo    domain.PaymentRepository
	borrowerRepo   domain.BorrowerRepository
	notifier       notify.Notifier
	eventPublisher websocket.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(loanRepo domain.LoanRepository, paymentRepo domain.PaymentRepository, borrowerRepo domain.BorrowerRepository, notifier notify.Notifier) *PaymentService {
	return &PaymentService{
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
		borrowerRepo: borrowerRepo,
		notifier:     notifier,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PaymentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *PaymentService) publishEvent(borrowerID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(borrowerID, event)
	}
}

// RecordPayment persists a payment against a loan and returns the payment
// together with the rebuilt statement. Overpayment is allowed; the statement
// simply goes negative.
//
// Access is restricted to the loan's owner or an admin. phone is optional;
// when present a confirmation SMS carrying the remaining balance is sent
// best-effort after the payment is committed.
func (s *PaymentService) RecordPayment(ctx context.Context, actorID int32, actorRole domain.Role, loanID int32, amount decimal.Decimal, paymentDate time.Time, phone string) (*domain.Payment, *domain.Statement, error) {
	loan, err := s.loanRepo.GetByID(loanID)
	if err != nil {
		return nil, nil, err
	}
	if loan.BorrowerID != actorID && actorRole != domain.RoleAdmin {
		return nil, nil, domain.ErrForbidden
	}

	payment := &domain.Payment{
		LoanID:      loanID,
		Amount:      amount,
		PaymentDate: paymentDate,
	}
	if err := payment.Validate(); err != nil {
		return nil, nil, err
	}

	payment, err = s.paymentRepo.Create(payment)
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

	s.publishEvent(loan.BorrowerID, websocket.PaymentRecorded(payment))

	if phone != "" {
		borrower, berr := s.borrowerRepo.GetByID(loan.BorrowerID)
		if berr != nil {
			log.Warn().Err(berr).Int32("payment_id", payment.ID).Msg("Skipping payment SMS, borrower lookup failed")
			return payment, statement, nil
		}
		if serr := s.notifier.SendPaymentRecorded(ctx, phone, borrower.Name, loanID, payment.Amount, statement.OutstandingBalance); serr != nil {
			log.Warn().Err(serr).Int32("payment_id", payment.ID).Msg("Failed to send payment recorded SMS")
		}
	}

	return payment, statement, nil
}
