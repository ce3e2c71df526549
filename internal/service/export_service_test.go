package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportServiceFixture struct {
	svc      *ExportService
	renderer *testutil.MockRenderer
	archive  *testutil.MockArchive
}

func newExportServiceFixture(t *testing.T, withArchive bool) *exportServiceFixture {
	t.Helper()

	loanRepo := testutil.NewMockLoanRepository()
	paymentRepo := testutil.NewMockPaymentRepository()
	borrowerRepo := testutil.NewMockBorrowerRepository()

	borrowerRepo.AddBorrower(&domain.Borrower{
		ID:    1,
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  domain.RoleUser,
	})
	loanRepo.AddLoan(&domain.Loan{
		ID:         1,
		BorrowerID: 1,
		Terms: domain.LoanTerms{
			Principal:         decimal.NewFromInt(10000),
			AnnualRatePercent: decimal.NewFromInt(12),
			TermMonths:        12,
		},
		EMI:       decimal.RequireFromString("888.49"),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	loanSvc := NewLoanService(loanRepo, paymentRepo, borrowerRepo, testutil.NewMockNotifier())

	f := &exportServiceFixture{renderer: &testutil.MockRenderer{}}
	if withArchive {
		f.archive = testutil.NewMockArchive()
		f.svc = NewExportService(loanSvc, borrowerRepo, f.renderer, f.archive)
	} else {
		f.svc = NewExportService(loanSvc, borrowerRepo, f.renderer, nil)
	}
	return f
}

func TestExportService_ExportStatementPDF(t *testing.T) {
	f := newExportServiceFixture(t, false)

	pdf, filename, err := f.svc.ExportStatementPDF(context.Background(), 1, domain.RoleUser, 1)
	require.NoError(t, err)

	assert.Equal(t, "loan_1.pdf", filename)
	assert.NotEmpty(t, pdf)
	assert.True(t, strings.Contains(f.renderer.LastHTML, "Loan Statement"),
		"rendered HTML should be the statement document")
	assert.True(t, strings.Contains(f.renderer.LastHTML, "Alice"))
}

func TestExportService_ExportStatementPDF_Forbidden(t *testing.T) {
	f := newExportServiceFixture(t, false)

	_, _, err := f.svc.ExportStatementPDF(context.Background(), 2, domain.RoleUser, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, filename, err := f.svc.ExportStatementPDF(context.Background(), 2, domain.RoleAdmin, 1)
	require.NoError(t, err)
	assert.Equal(t, "loan_1.pdf", filename)
}

func TestExportService_ExportStatementPDF_RendererError(t *testing.T) {
	f := newExportServiceFixture(t, false)
	f.renderer.Err = assert.AnError

	_, _, err := f.svc.ExportStatementPDF(context.Background(), 1, domain.RoleUser, 1)
	assert.Error(t, err)
}

func TestExportService_ExportStatementPDF_Archives(t *testing.T) {
	f := newExportServiceFixture(t, true)

	pdf, _, err := f.svc.ExportStatementPDF(context.Background(), 1, domain.RoleUser, 1)
	require.NoError(t, err)
	assert.Equal(t, pdf, f.archive.Stored[1])
}

func TestExportService_ExportStatementPDF_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newExportServiceFixture(t, true)
	f.archive.Err = assert.AnError

	pdf, filename, err := f.svc.ExportStatementPDF(context.Background(), 1, domain.RoleUser, 1)
	require.NoError(t, err, "archive failure must not block the download")
	assert.Equal(t, "loan_1.pdf", filename)
	assert.NotEmpty(t, pdf)
}
