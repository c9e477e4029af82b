// Package shared holds the entity base and error type used across domain packages.
package shared

// DomainError is a validation failure raised by a domain constructor. Code is
// stable and machine readable; Message is meant for logs and API clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}
