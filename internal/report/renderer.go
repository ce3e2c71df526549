// Package report renders loan statements to HTML and exports them as PDF
// documents.
package report

import (
	"context"
	"errors"
)

var (
	// ErrEmptyDocument is returned when rendering produced no output
	ErrEmptyDocument = errors.New("generated PDF is empty")
	// ErrRenderTimeout is returned when the renderer ran out of time
	ErrRenderTimeout = errors.New("PDF rendering timed out")
)

// PDFRenderer converts an HTML document into PDF bytes. The ledger core has
// no dependency on this; it is a strictly downstream consumer of a
// Statement.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}
