// Package testutil provides hand-written in-memory mocks shared across
// service and handler tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/repository/redis"
	"github.com/lendledger/lendledger-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockBorrowerRepository is a mock implementation of domain.BorrowerRepository
type MockBorrowerRepository struct {
	Borrowers map[int32]*domain.Borrower
	nextID    int32
	CreateFn  func(borrower *domain.Borrower) (*domain.Borrower, error)
}

// NewMockBorrowerRepository creates a new MockBorrowerRepository
func NewMockBorrowerRepository() *MockBorrowerRepository {
	return &MockBorrowerRepository{
		Borrowers: make(map[int32]*domain.Borrower),
		nextID:    1,
	}
}

// Create creates a new borrower, enforcing email uniqueness
func (m *MockBorrowerRepository) Create(borrower *domain.Borrower) (*domain.Borrower, error) {
	if m.CreateFn != nil {
		return m.CreateFn(borrower)
	}
	for _, existing := range m.Borrowers {
		if existing.Email == borrower.Email {
			return nil, domain.ErrBorrowerEmailTaken
		}
	}
	created := *borrower
	created.ID = m.nextID
	created.CreatedAt = time.Now().UTC()
	m.nextID++
	m.Borrowers[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a borrower by ID
func (m *MockBorrowerRepository) GetByID(id int32) (*domain.Borrower, error) {
	if b, ok := m.Borrowers[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBorrowerNotFound
}

// GetByEmail retrieves a borrower by email and role
func (m *MockBorrowerRepository) GetByEmail(email string, role domain.Role) (*domain.Borrower, error) {
	for _, b := range m.Borrowers {
		if b.Email == email && b.Role == role {
			return b, nil
		}
	}
	return nil, domain.ErrBorrowerNotFound
}

// AddBorrower adds a borrower to the mock repository (helper for tests)
func (m *MockBorrowerRepository) AddBorrower(borrower *domain.Borrower) {
	if borrower.ID >= m.nextID {
		m.nextID = borrower.ID + 1
	}
	m.Borrowers[borrower.ID] = borrower
}

// MockLoanRepository is a mock implementation of domain.LoanRepository
type MockLoanRepository struct {
	Loans    map[int32]*domain.Loan
	nextID   int32
	CreateFn func(loan *domain.Loan) (*domain.Loan, error)
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		Loans:  make(map[int32]*domain.Loan),
		nextID: 1,
	}
}

// Create creates a new loan
func (m *MockLoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	if m.CreateFn != nil {
		return m.CreateFn(loan)
	}
	created := *loan
	created.ID = m.nextID
	created.CreatedAt = time.Now().UTC()
	m.nextID++
	m.Loans[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a loan by ID
func (m *MockLoanRepository) GetByID(id int32) (*domain.Loan, error) {
	if l, ok := m.Loans[id]; ok {
		return l, nil
	}
	return nil, domain.ErrLoanNotFound
}

// GetByBorrower retrieves all loans for a borrower
func (m *MockLoanRepository) GetByBorrower(borrowerID int32) ([]*domain.Loan, error) {
	loans := make([]*domain.Loan, 0)
	for _, l := range m.Loans {
		if l.BorrowerID == borrowerID {
			loans = append(loans, l)
		}
	}
	return loans, nil
}

// GetAllWithBorrower retrieves all loans; borrower fields are left empty
// unless the test fills them in
func (m *MockLoanRepository) GetAllWithBorrower() ([]*domain.LoanWithBorrower, error) {
	loans := make([]*domain.LoanWithBorrower, 0)
	for _, l := range m.Loans {
		loans = append(loans, &domain.LoanWithBorrower{Loan: *l})
	}
	return loans, nil
}

// AddLoan adds a loan to the mock repository (helper for tests)
func (m *MockLoanRepository) AddLoan(loan *domain.Loan) {
	if loan.ID >= m.nextID {
		m.nextID = loan.ID + 1
	}
	m.Loans[loan.ID] = loan
}

// MockPaymentRepository is a mock implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	Payments map[int32]*domain.Payment
	nextID   int32
	CreateFn func(payment *domain.Payment) (*domain.Payment, error)
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		Payments: make(map[int32]*domain.Payment),
		nextID:   1,
	}
}

// Create creates a new payment
func (m *MockPaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(payment)
	}
	created := *payment
	created.ID = m.nextID
	created.CreatedAt = time.Now().UTC()
	m.nextID++
	m.Payments[created.ID] = &created
	return &created, nil
}

// GetByLoanID retrieves all payments for a loan
func (m *MockPaymentRepository) GetByLoanID(loanID int32) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)
	for _, p := range m.Payments {
		if p.LoanID == loanID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// AddPayment adds a payment to the mock repository (helper for tests)
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	if payment.ID >= m.nextID {
		m.nextID = payment.ID + 1
	}
	m.Payments[payment.ID] = payment
}

// MockSessionStore is an in-memory implementation of redis.SessionStore
type MockSessionStore struct {
	Sessions map[uuid.UUID]*redis.Session
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		Sessions: make(map[uuid.UUID]*redis.Session),
	}
}

// Create stores a new session
func (m *MockSessionStore) Create(borrowerID int32, role domain.Role) (*redis.Session, error) {
	session := &redis.Session{
		ID:         uuid.New(),
		BorrowerID: borrowerID,
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	}
	m.Sessions[session.ID] = session
	return session, nil
}

// Get retrieves a session by ID
func (m *MockSessionStore) Get(id uuid.UUID) (*redis.Session, error) {
	if s, ok := m.Sessions[id]; ok {
		return s, nil
	}
	return nil, redis.ErrSessionNotFound
}

// Delete removes a session
func (m *MockSessionStore) Delete(id uuid.UUID) error {
	delete(m.Sessions, id)
	return nil
}

// SentSMS captures one notification delivered through MockNotifier
type SentSMS struct {
	Phone            string
	BorrowerName     string
	LoanID           int32
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
	Kind             string // "loan_created" or "payment_recorded"
}

// MockNotifier records notifications instead of sending them
type MockNotifier struct {
	mu   sync.Mutex
	Sent []SentSMS
	Err  error
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SendLoanCreated records a loan-created notification
func (m *MockNotifier) SendLoanCreated(ctx context.Context, phone, borrowerName string, loan *domain.Loan) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentSMS{
		Phone:        phone,
		BorrowerName: borrowerName,
		LoanID:       loan.ID,
		Kind:         "loan_created",
	})
	return nil
}

// SendPaymentRecorded records a payment notification
func (m *MockNotifier) SendPaymentRecorded(ctx context.Context, phone, borrowerName string, loanID int32, amount, remainingBalance decimal.Decimal) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentSMS{
		Phone:            phone,
		BorrowerName:     borrowerName,
		LoanID:           loanID,
		Amount:           amount,
		RemainingBalance: remainingBalance,
		Kind:             "payment_recorded",
	})
	return nil
}

// Messages returns a copy of the recorded notifications
func (m *MockNotifier) Messages() []SentSMS {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]SentSMS, len(m.Sent))
	copy(copied, m.Sent)
	return copied
}

// MockRenderer is a mock implementation of report.PDFRenderer
type MockRenderer struct {
	Output   []byte
	Err      error
	LastHTML string
}

// Render returns the configured output and captures the HTML it was given
func (m *MockRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	m.LastHTML = html
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Output != nil {
		return m.Output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

// Close is a no-op
func (m *MockRenderer) Close() error {
	return nil
}

// MockArchive is a mock implementation of storage.StatementArchive
type MockArchive struct {
	Stored map[int32][]byte
	Err    error
}

// NewMockArchive creates a new MockArchive
func NewMockArchive() *MockArchive {
	return &MockArchive{Stored: make(map[int32][]byte)}
}

// Store records the PDF bytes by loan ID
func (m *MockArchive) Store(ctx context.Context, loanID int32, pdf []byte) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Stored[loanID] = pdf
	return "statements/mock.pdf", nil
}

// PublishedEvent captures one event delivered through MockPublisher
type PublishedEvent struct {
	BorrowerID int32
	Event      websocket.Event
}

// MockPublisher records published WebSocket events
type MockPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (m *MockPublisher) Publish(borrowerID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{BorrowerID: borrowerID, Event: event})
}

// Published returns a copy of the recorded events
func (m *MockPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]PublishedEvent, len(m.Events))
	copy(copied, m.Events)
	return copied
}
