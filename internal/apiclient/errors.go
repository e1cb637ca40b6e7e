package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNoResponse   = errors.New("no response from server")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("request rejected")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// Error is returned for every failed backend call. StatusCode is 0 when no
// response was received at all.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Code       string
	Body       []byte
	Attempts   int
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		if e.cause != nil {
			return fmt.Sprintf("%s %s: no response: %v", e.Method, e.Path, e.cause)
		}
		return fmt.Sprintf("%s %s: no response", e.Method, e.Path)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) HasResponse() bool {
	return e.StatusCode != 0
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNoResponse:
		return e.StatusCode == 0
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// Decode unmarshals the response body into v for structured rejections.
func (e *Error) Decode(v any) error {
	if len(e.Body) == 0 {
		return fmt.Errorf("empty error body")
	}
	return json.Unmarshal(e.Body, v)
}

type errorBody struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	ErrorType string `json:"error_type"`
}

func newStatusError(req request, status int, body []byte) *Error {
	e := &Error{
		Method:     req.method,
		Path:       req.path,
		StatusCode: status,
		Body:       body,
	}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Message = firstNonEmpty(parsed.Message, parsed.Error, parsed.Detail)
		e.Code = firstNonEmpty(parsed.Code, parsed.ErrorType)
	}
	return e
}

// Describe turns an error into the message shown to the operator.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch {
	case errors.Is(apiErr, ErrNoResponse):
		return "Unable to reach the server. Check your connection and try again."
	case errors.Is(apiErr, ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(apiErr, ErrForbidden):
		return "You do not have permission to perform this action."
	case errors.Is(apiErr, ErrNotFound):
		return firstNonEmpty(apiErr.Message, "The requested record was not found.")
	case errors.Is(apiErr, ErrConflict):
		return firstNonEmpty(apiErr.Message, "The record conflicts with an existing one, for example a duplicate order number.")
	case errors.Is(apiErr, ErrValidation):
		return firstNonEmpty(apiErr.Message, "The request was rejected by the server.")
	case errors.Is(apiErr, ErrServer):
		return "The server failed to process the request. Try again later."
	}
	return firstNonEmpty(apiErr.Message, "The request failed.")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
