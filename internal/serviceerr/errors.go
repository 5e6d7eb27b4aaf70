package serviceerr

import (
	"net/http"
)

type Code string

const (
	CodeInvalidRequest         Code = "invalid_request"
	CodeUnauthorized           Code = "unauthorized"
	CodeAccessDenied           Code = "access_denied"
	CodeNotFound               Code = "not_found"
	CodeConflict               Code = "conflict"
	CodeServerError            Code = "server_error"
	CodeTemporarilyUnavailable Code = "temporarily_unavailable"
	CodeUnknown                Code = "unknown"

	CodeRemoteFailure       Code = "remote_failure"
	CodeNotAuthenticated    Code = "not_authenticated"
	CodeNoRefreshCredential Code = "no_refresh_credential"
	CodeRefreshFailed       Code = "refresh_failed"
	CodeInvalidImage        Code = "invalid_image"
)

// Error is a coded error. Errors with the same code match each other with errors.Is,
// so a remote 404 wrapped deep inside a call chain still satisfies errors.Is(err, ErrNotFound).
type Error struct {
	Err         Code
	Description string
}

var (
	ErrInvalidRequest         = &Error{Err: CodeInvalidRequest}
	ErrAccessDenied           = &Error{Err: CodeAccessDenied}
	ErrServerError            = &Error{Err: CodeServerError}
	ErrTemporarilyUnavailable = &Error{Err: CodeTemporarilyUnavailable}

	ErrUnknown             = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrUnauthorized        = &Error{Err: CodeUnauthorized, Description: "unauthorized"}
	ErrNotFound            = &Error{Err: CodeNotFound, Description: "not found"}
	ErrConflict            = &Error{Err: CodeConflict, Description: "already exists"}
	ErrRemoteFailure       = &Error{Err: CodeRemoteFailure, Description: "remote operation failed"}
	ErrNotAuthenticated    = &Error{Err: CodeNotAuthenticated, Description: "no access credential"}
	ErrNoRefreshCredential = &Error{Err: CodeNoRefreshCredential, Description: "no refresh credential"}
	ErrRefreshFailed       = &Error{Err: CodeRefreshFailed, Description: "refreshing credentials failed"}
	ErrInvalidImage        = &Error{Err: CodeInvalidImage, Description: "invalid image"}
)

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Err == t.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest, CodeInvalidImage:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeNotAuthenticated, CodeNoRefreshCredential, CodeRefreshFailed:
		return http.StatusUnauthorized
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRemoteFailure:
		return http.StatusBadGateway
	case CodeTemporarilyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeFromHTTPStatus classifies a non-2xx response of the storefront API.
func CodeFromHTTPStatus(status int) Code {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return CodeInvalidRequest
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodeAccessDenied
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusServiceUnavailable, status == http.StatusTooManyRequests:
		return CodeTemporarilyUnavailable
	case status >= http.StatusInternalServerError:
		return CodeServerError
	default:
		return CodeUnknown
	}
}

// New returns a coded error with a description, typically the message of a remote envelope.
func New(code Code, description string) *Error {
	return &Error{Err: code, Description: description}
}
