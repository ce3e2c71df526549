package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/lendledger/lendledger-backend/internal/middleware"
	"github.com/lendledger/lendledger-backend/internal/report"
	"github.com/lendledger/lendledger-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ExportHandler handles statement PDF downloads
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// DownloadStatement handles GET /api/v1/loans/:id/statement.pdf
func (h *ExportHandler) DownloadStatement(c echo.Context) error {
	loanID, err := parseLoanID(c)
	if err != nil {
		return err
	}

	pdf, filename, err := h.exportService.ExportStatementPDF(
		c.Request().Context(),
		middleware.GetBorrowerID(c), middleware.GetRole(c), loanID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return NewNotFoundError(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not your loan")
		case errors.Is(err, report.ErrRenderTimeout):
			log.Error().Err(err).Int32("loan_id", loanID).Msg("Statement PDF render timed out")
			return NewInternalError(c, "PDF rendering timed out")
		default:
			log.Error().Err(err).Int32("loan_id", loanID).Msg("Failed to export statement")
			return NewInternalError(c, "Failed to export statement")
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(200, "application/pdf", pdf)
}
