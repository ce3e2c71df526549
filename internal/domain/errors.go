package domain

import (
	"errors"
	"fmt"
)

// Shared domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")
)

// Error roots for the ledger core. Callers dispatch with errors.Is against
// the root; the wrapped variants carry the failing field.
var (
	ErrInvalidLoanTerms = errors.New("invalid loan terms")
	ErrInvalidLoanState = errors.New("invalid loan state")
)

var (
	ErrLoanPrincipalInvalid = fmt.Errorf("%w: principal must be positive", ErrInvalidLoanTerms)
	ErrLoanTermInvalid      = fmt.Errorf("%w: term must be at least 1 month", ErrInvalidLoanTerms)
	ErrLoanRateInvalid      = fmt.Errorf("%w: annual rate must not be negative", ErrInvalidLoanTerms)

	ErrLoanEMIInvalid       = fmt.Errorf("%w: emi must be positive", ErrInvalidLoanState)
	ErrLoanTermStateInvalid = fmt.Errorf("%w: term must be at least 1 month", ErrInvalidLoanState)
)
