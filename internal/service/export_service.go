package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/report"
	"github.com/lendledger/lendledger-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

// ExportService turns loan statements into downloadable PDF documents
type ExportService struct {
	loanService  *LoanService
	borrowerRepo domain.BorrowerRepository
	renderer     report.PDFRenderer
	archive      storage.StatementArchive
}

// NewExportService creates a new ExportService. archive may be nil when
// archival is disabled.
func NewExportService(loanService *LoanService, borrowerRepo domain.BorrowerRepository, renderer report.PDFRenderer, archive storage.StatementArchive) *ExportService {
	return &ExportService{
		loanService:  loanService,
		borrowerRepo: borrowerRepo,
		renderer:     renderer,
		archive:      archive,
	}
}

// ExportStatementPDF renders the loan's current statement to PDF and returns
// the bytes together with the download filename. Access control is delegated
// to the statement assembly, so the same owner-or-admin rule applies.
//
// When an archive is configured the PDF is also stored there; archival
// failure is logged but never blocks the download.
func (s *ExportService) ExportStatementPDF(ctx context.Context, actorID int32, actorRole domain.Role, loanID int32) ([]byte, string, error) {
	loan, statement, err := s.loanService.GetLoanStatement(actorID, actorRole, loanID)
	if err != nil {
		return nil, "", err
	}

	borrower, err := s.borrowerRepo.GetByID(loan.BorrowerID)
	if err != nil {
		return nil, "", err
	}

	html, err := report.StatementHTML(report.StatementDocument{
		Loan:        loan,
		Borrower:    borrower,
		Statement:   statement,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to render statement HTML: %w", err)
	}

	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render statement PDF: %w", err)
	}

	if s.archive != nil {
		if key, aerr := s.archive.Store(ctx, loanID, pdf); aerr != nil {
			log.Warn().Err(aerr).Int32("loan_id", loanID).Msg("Failed to archive statement PDF")
		} else {
			log.Debug().Str("key", key).Int32("loan_id", loanID).Msg("Statement PDF archived")
		}
	}

	return pdf, fmt.Sprintf("loan_%d.pdf", loanID), nil
}
