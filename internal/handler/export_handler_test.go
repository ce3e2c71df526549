package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/service"
	"github.com/lendledger/lendledger-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newExportHandlerFixture(renderer *testutil.MockRenderer) *ExportHandler {
	loanRepo := testutil.NewMockLoanRepository()
	paymentRepo := testutil.NewMockPaymentRepository()
	borrowerRepo := testutil.NewMockBorrowerRepository()
	borrowerRepo.AddBorrower(&domain.Borrower{
		ID: 1, Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser,
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
	loanService := service.NewLoanService(loanRepo, paymentRepo, borrowerRepo, testutil.NewMockNotifier())
	exportService := service.NewExportService(loanService, borrowerRepo, renderer, nil)
	return NewExportHandler(exportService)
}

func TestDownloadStatement(t *testing.T) {
	e := echo.New()
	renderer := &testutil.MockRenderer{Output: []byte("%PDF-1.4 statement")}
	handler := newExportHandlerFixture(renderer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/1/statement.pdf", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupSessionContext(c, uuid.New(), 1, domain.RoleUser)

	if err := handler.DownloadStatement(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "loan_1.pdf") {
		t.Errorf("Expected Content-Disposition with loan_1.pdf, got %s", cd)
	}
	if rec.Body.String() != "%PDF-1.4 statement" {
		t.Error("Expected the rendered PDF bytes in the body")
	}
}

func TestDownloadStatement_Forbidden(t *testing.T) {
	e := echo.New()
	handler := newExportHandlerFixture(&testutil.MockRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/1/statement.pdf", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupSessionContext(c, uuid.New(), 2, domain.RoleUser)

	if err := handler.DownloadStatement(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDownloadStatement_RenderFailure(t *testing.T) {
	e := echo.New()
	renderer := &testutil.MockRenderer{Err: errors.New("chrome crashed")}
	handler := newExportHandlerFixture(renderer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/1/statement.pdf", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupSessionContext(c, uuid.New(), 1, domain.RoleUser)

	if err := handler.DownloadStatement(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}
