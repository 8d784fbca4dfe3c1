package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrFetch ErrorType = iota
	ErrUpstreamStatus
	ErrDecompress
	ErrSignature
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrFetch:
		return "Fetch"
	case ErrUpstreamStatus:
		return "UpstreamStatus"
	case ErrDecompress:
		return "Decompress"
	case ErrSignature:
		return "Signature"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// WebAPTError represents an error raised while fetching or checking repository metadata
type WebAPTError struct {
	Type ErrorType
	URL  string
	Err  error
}

// Error implements the error interface
func (e *WebAPTError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.URL, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *WebAPTError) Unwrap() error {
	return e.Err
}
