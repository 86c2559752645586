// Package errors provides the structured error taxonomy for dottux.
//
// Every failure the lifecycle manager can report is a *TuxError carrying a
// Code, the offending domain and backend where known, the captured reload
// output for reload failures, and the wrapped cause. Callers at the CLI and
// panel boundary render these errors for the operator; nothing here panics.
//
// # Error Codes
//
//	INVALID_DOMAIN_NAME        prefix or name fails the slug rule
//	DUPLICATE_DOMAIN           domain is already managed
//	DOMAIN_NOT_FOUND           domain is not managed
//	RESERVED_DOMAIN            domain is the control panel's own
//	UNSUPPORTED_BACKEND        backend value is not nginx, caddy or lighttpd
//	BACKEND_NOT_CONFIGURED     no backend selected in the configuration
//	DIRECTORY_UNAVAILABLE      artifacts directory missing or unreadable
//	IO_ERROR                   filesystem failure while writing or removing
//	RELOAD_NONZERO_EXIT        reload executable exited non-zero
//	RELOAD_TIMEOUT             reload executable did not finish in time
//	RELOAD_EXECUTABLE_MISSING  reload executable absent or not executable
//
// # Error Checking
//
// Use errors.Is against the sentinels; comparison is by code:
//
//	if errors.Is(err, errors.ErrDuplicateDomain) {
//	    // Handle duplicate
//	}
//
// Use errors.As to reach the captured reload output:
//
//	var tuxErr *errors.TuxError
//	if errors.As(err, &tuxErr) && tuxErr.Output != "" {
//	    fmt.Println(tuxErr.Output)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeInvalidDomainName    ErrorCode = "INVALID_DOMAIN_NAME"
	ErrCodeDuplicateDomain      ErrorCode = "DUPLICATE_DOMAIN"
	ErrCodeDomainNotFound       ErrorCode = "DOMAIN_NOT_FOUND"
	ErrCodeReservedDomain       ErrorCode = "RESERVED_DOMAIN"
	ErrCodeUnsupportedBackend   ErrorCode = "UNSUPPORTED_BACKEND"
	ErrCodeBackendNotConfigured ErrorCode = "BACKEND_NOT_CONFIGURED"
	ErrCodeDirectoryUnavailable ErrorCode = "DIRECTORY_UNAVAILABLE"
	ErrCodeIO                   ErrorCode = "IO_ERROR"
	ErrCodeReloadNonZeroExit    ErrorCode = "RELOAD_NONZERO_EXIT"
	ErrCodeReloadTimeout        ErrorCode = "RELOAD_TIMEOUT"
	ErrCodeReloadMissing        ErrorCode = "RELOAD_EXECUTABLE_MISSING"
)

// TuxError represents a structured error with context about the operation.
type TuxError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Domain  string    // Domain name (if applicable)
	Backend string    // Backend name (if applicable)
	Output  string    // Captured reload output (reload errors only)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *TuxError) Error() string {
	msg := e.Message
	if e.Backend != "" {
		msg = fmt.Sprintf("%s (backend %s)", msg, e.Backend)
	}
	if e.Domain != "" {
		msg = fmt.Sprintf("domain %s: %s", e.Domain, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s\n%s", msg, e.Output)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *TuxError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *TuxError) Is(target error) bool {
	t, ok := target.(*TuxError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors, one per code. Use these with errors.Is().
var (
	ErrInvalidDomainName    = &TuxError{Code: ErrCodeInvalidDomainName, Message: "invalid domain name"}
	ErrDuplicateDomain      = &TuxError{Code: ErrCodeDuplicateDomain, Message: "domain already exists"}
	ErrDomainNotFound       = &TuxError{Code: ErrCodeDomainNotFound, Message: "domain not found"}
	ErrReservedDomain       = &TuxError{Code: ErrCodeReservedDomain, Message: "domain is reserved for the control panel"}
	ErrUnsupportedBackend   = &TuxError{Code: ErrCodeUnsupportedBackend, Message: "unsupported backend"}
	ErrBackendNotConfigured = &TuxError{Code: ErrCodeBackendNotConfigured, Message: "backend is not configured"}
	ErrDirectoryUnavailable = &TuxError{Code: ErrCodeDirectoryUnavailable, Message: "artifacts directory unavailable"}
	ErrIO                   = &TuxError{Code: ErrCodeIO, Message: "filesystem error"}
	ErrReloadNonZeroExit    = &TuxError{Code: ErrCodeReloadNonZeroExit, Message: "reload failed"}
	ErrReloadTimeout        = &TuxError{Code: ErrCodeReloadTimeout, Message: "reload timed out, live server state unknown"}
	ErrReloadMissing        = &TuxError{Code: ErrCodeReloadMissing, Message: "reload executable not found"}
)

// InvalidDomainName creates an error for a name that fails validation.
func InvalidDomainName(name, reason string) error {
	return &TuxError{
		Code:    ErrCodeInvalidDomainName,
		Message: "invalid domain name: " + reason,
		Domain:  name,
	}
}

// DuplicateDomain creates an error for a domain that is already managed.
func DuplicateDomain(domain, backend string) error {
	return &TuxError{
		Code:    ErrCodeDuplicateDomain,
		Message: "domain already exists",
		Domain:  domain,
		Backend: backend,
	}
}

// DomainNotFound creates an error for a domain that is not managed.
func DomainNotFound(domain, backend string) error {
	return &TuxError{
		Code:    ErrCodeDomainNotFound,
		Message: "domain not found",
		Domain:  domain,
		Backend: backend,
	}
}

// ReservedDomain creates an error for an attempt to touch the panel domain.
func ReservedDomain(domain string) error {
	return &TuxError{
		Code:    ErrCodeReservedDomain,
		Message: "domain is reserved for the control panel",
		Domain:  domain,
	}
}

// UnsupportedBackend creates an error for an unknown backend value.
func UnsupportedBackend(backend string) error {
	return &TuxError{
		Code:    ErrCodeUnsupportedBackend,
		Message: "unsupported backend",
		Backend: backend,
	}
}

// BackendNotConfigured creates an error for a missing backend selection.
func BackendNotConfigured(source string) error {
	return &TuxError{
		Code:    ErrCodeBackendNotConfigured,
		Message: "backend is not configured in " + source,
	}
}

// DirectoryUnavailable creates an error for a missing or unreadable directory.
func DirectoryUnavailable(dir, backend string, err error) error {
	return &TuxError{
		Code:    ErrCodeDirectoryUnavailable,
		Message: "artifacts directory unavailable: " + dir,
		Backend: backend,
		Err:     err,
	}
}

// IO creates a filesystem error with domain and backend context.
func IO(domain, backend, msg string, err error) error {
	return &TuxError{
		Code:    ErrCodeIO,
		Message: msg,
		Domain:  domain,
		Backend: backend,
		Err:     err,
	}
}

// Reload creates a reload error carrying the captured output verbatim.
func Reload(code ErrorCode, msg, output string, err error) error {
	return &TuxError{
		Code:    code,
		Message: msg,
		Output:  output,
		Err:     err,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &TuxError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// CodeOf returns the code of the first TuxError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var tuxErr *TuxError
	if errors.As(err, &tuxErr) {
		return tuxErr.Code
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
