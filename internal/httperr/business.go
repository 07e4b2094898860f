package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure so callers can decide how to surface it.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindIntegrity    Kind = "integrity"
	KindConnectivity Kind = "connectivity"
)

type BusinessError struct {
	Kind Kind
	Code string
	// Cause is only set for connectivity errors.
	Cause error
}

func (e BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Cause
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrIntegrity(code string) error {
	return BusinessError{Kind: KindIntegrity, Code: code}
}

// ErrConnectivity wraps a storage failure. Wrapping an error that is already a
// connectivity error returns it unchanged.
func ErrConnectivity(cause error) error {
	if cause == nil {
		return nil
	}
	if IsConnectivity(cause) {
		return cause
	}
	return BusinessError{Kind: KindConnectivity, Code: "storage_unavailable", Cause: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsConnectivity(err error) bool {
	return KindOf(err) == KindConnectivity
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// CodeOf returns the code of a business error, or "" for anything else.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
