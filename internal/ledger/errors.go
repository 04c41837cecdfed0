package ledger

import (
	"errors"
	"fmt"
)

// DomainError reports a request that was well formed but violates a ledger
// rule: inactive accounts, invalid currency combinations, statement balance
// mismatches, mutating reconciled lines. Callers should present the message
// to the user and never retry automatically.
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string { return e.msg }

// Domainf builds a DomainError from a format string.
func Domainf(format string, args ...any) error {
	return &DomainError{msg: fmt.Sprintf(format, args...)}
}

func domainf(format string, args ...any) error { return Domainf(format, args...) }

// IsDomainError reports whether err is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
