package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Error Code
// 000 - 099: General errors
const (
	ECUnknown         = 000
	ECMarshalFailed   = 001
	ECUnmarshalFailed = 002
	ECIOError         = 003
	ECConfigError     = 004
)

// HTTP 400 - 499: Client errors
const (
	ECBadRequest      = http.StatusBadRequest
	ECNotFound        = http.StatusNotFound
	ECTooManyRequests = http.StatusTooManyRequests
)

// HTTP 500 - 599: Server errors
const (
	ECInternalServerError = http.StatusInternalServerError
	ECBadGateway          = http.StatusBadGateway
	ECServiceUnavailable  = http.StatusServiceUnavailable
	ECGatewayTimeout      = http.StatusGatewayTimeout
)

const (
	ECWebpageParsingError = iota + 520
	ECNetworkError
	ECHTTPStatusError
	ECValidationError
	ECTaskPanic
)

type Error struct {
	InternalStatusCode int      `json:"-"`
	HttpStatusCode     int      `json:"code"`
	Message            string   `json:"message"`
	Details            []string `json:"details,omitempty"`
	internal           error
}

var (
	ErrBadRequest       = NewWithHTTPStatus(ECBadRequest, http.StatusBadRequest, "bad request")
	ErrValidationFailed = NewWithHTTPStatus(ECValidationError, http.StatusBadRequest, "validation failed")
	ErrConfig           = NewWithHTTPStatus(ECConfigError, http.StatusInternalServerError, "invalid configuration")
	ErrIO               = NewWithHTTPStatus(ECIOError, http.StatusInternalServerError, "i/o error")
	ErrMarshalFailed    = NewWithHTTPStatus(ECMarshalFailed, http.StatusInternalServerError, "failed to marshal data")

	// ErrNetwork covers timeouts and connection failures while fetching a page.
	ErrNetwork = NewWithHTTPStatus(ECNetworkError, http.StatusBadGateway, "network error")
	// ErrHTTPStatus is returned when the remote site answers with anything but 200.
	ErrHTTPStatus = NewWithHTTPStatus(ECHTTPStatusError, http.StatusBadGateway, "unexpected http status")
	// ErrParse is returned when the expected HTML structure is absent or malformed.
	ErrParse     = NewWithHTTPStatus(ECWebpageParsingError, http.StatusUnprocessableEntity, "failed to parse webpage")
	ErrTaskPanic = NewWithHTTPStatus(ECTaskPanic, http.StatusInternalServerError, "task panicked")
)

func NewWithHTTPStatus(internalSC, httpSC int, msg string, details ...string) *Error {
	return &Error{
		InternalStatusCode: internalSC,
		HttpStatusCode:     httpSC,
		Message:            msg,
		Details:            details,
		internal:           nil,
	}
}

func New(code int, message string, details ...string) *Error {
	return NewWithHTTPStatus(
		code,
		http.StatusInternalServerError,
		message,
		details...,
	)
}

func (e *Error) Error() string {
	if e.internal != nil {
		return fmt.Sprintf("[%d] %s (original error: %s)", e.InternalStatusCode, e.Message, e.internal.Error())
	}
	return fmt.Sprintf("[%d] %s", e.InternalStatusCode, e.Message)
}

func (e *Error) ErrorWithDetails() string {
	sb := strings.Builder{}
	sb.WriteString("Error: ")
	sb.WriteString(fmt.Sprintf("  - [%d] %s\n", e.InternalStatusCode, e.Message))
	if len(e.Details) > 0 {
		sb.WriteString("  - Details:\n")
		for _, detail := range e.Details {
			sb.WriteString(fmt.Sprintf("    - %s\n", detail))
		}
	}
	if e.internal != nil {
		sb.WriteString("  - Internal Error: ")
		sb.WriteString(e.internal.Error())
	}
	return sb.String()
}

func (e *Error) Clone() *Error {
	return &Error{
		InternalStatusCode: e.InternalStatusCode,
		HttpStatusCode:     e.HttpStatusCode,
		Message:            e.Message,
		Details:            append([]string{}, e.Details...),
		internal:           e.internal,
	}
}

func (e *Error) WithMessage(message string) *Error {
	if e == nil {
		return nil
	}
	e.Message = message
	return e
}

func (e *Error) WithDetails(details ...string) *Error {
	if e == nil {
		return nil
	}
	e.Details = append(e.Details, details...)
	return e
}

func (e *Error) Warp(err error) *Error {
	if e == nil {
		return nil
	}
	if err == nil {
		return e
	}
	e.internal = err
	return e
}

func (e *Error) Unwrap() error {
	return e.internal
}

// Is reports whether target carries the same internal code, so a clone
// matches the sentinel it was made from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.InternalStatusCode == t.InternalStatusCode
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}
