package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError is an error the HTTP layer knows how to present. Code is the
// stable machine-readable identifier written to response bodies.
type DomainError struct {
	Code    string
	Message string
	Err     error

	status int
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code so a wrapped copy still satisfies errors.Is against the
// package-level values
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// Status is the HTTP status the error maps to
func (e *DomainError) Status() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, status: status}
}

// WrapError attaches a cause to a copy of domainErr
func WrapError(domainErr *DomainError, err error) *DomainError {
	wrapped := *domainErr
	wrapped.Err = err
	return &wrapped
}

var (
	ErrProductNotFound  = NewDomainError("PRODUCT_NOT_FOUND", "product not found", http.StatusNotFound)
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "invalid input", http.StatusBadRequest)
	ErrRequestCancelled = NewDomainError("REQUEST_CANCELLED", "request cancelled or timed out", http.StatusRequestTimeout)
	ErrRateLimited      = NewDomainError("RATE_LIMITED", "too many requests", http.StatusTooManyRequests)
	ErrStoreUnavailable = NewDomainError("STORE_UNAVAILABLE", "product store unavailable", http.StatusServiceUnavailable)
	ErrInternal         = NewDomainError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
)

// GetDomainError returns the outermost DomainError in err's chain, or nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps err to a response status. Errors outside the domain
// taxonomy are 500.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Status()
	}
	return http.StatusInternalServerError
}
