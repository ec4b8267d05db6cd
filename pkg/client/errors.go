package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrMissingToken is returned by New when Config.Token is empty.
var ErrMissingToken = errors.New("ifunny: bearer token is required")

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassNetwork represents dial, timeout and cancellation failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassProtocol represents responses that are not the expected JSON.
	ErrorClassProtocol ErrorClass = "protocol"

	// ErrorClassAPI represents an error envelope returned by the server.
	ErrorClassAPI ErrorClass = "api"
)

// TransportError means the request could not be completed: the connection
// failed, the server answered with a non-2xx status, or the body carried an
// error envelope (Err is then an *APIError).
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ifunny: %s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ifunny: %s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Class classifies the failure for logs and metrics.
func (e *TransportError) Class() ErrorClass {
	var apiErr *APIError
	switch {
	case errors.As(e.Err, &apiErr):
		return ErrorClassAPI
	case e.StatusCode >= 500:
		return ErrorClassServer
	case e.StatusCode >= 400:
		return ErrorClassClient
	default:
		return ErrorClassNetwork
	}
}

// ProtocolError means a response arrived but could not be interpreted.
type ProtocolError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ifunny: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("ifunny: %s: %s", e.Path, e.Reason)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// APIError is the server's error envelope:
//
//	{"error": "not_found", "error_description": "...", "status": 404}
type APIError struct {
	Status      int
	Code        string
	Description string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("status %d, %s", e.Status, e.Code)
	}
	return fmt.Sprintf("status %d, %s: %s", e.Status, e.Code, e.Description)
}

// parseAPIError returns the envelope in body, or nil when body has no
// top-level "error" member. status is used when the envelope omits one.
func parseAPIError(body []byte, status int) *APIError {
	if !gjson.ValidBytes(body) {
		return nil
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil
	}
	code := doc.Get("error")
	if !code.Exists() {
		return nil
	}

	apiErr := &APIError{
		Status:      status,
		Code:        code.String(),
		Description: doc.Get("error_description").String(),
	}
	if s := doc.Get("status"); s.Exists() && s.Int() != 0 {
		apiErr.Status = int(s.Int())
	}
	if apiErr.Status == 0 {
		apiErr.Status = http.StatusOK
	}
	return apiErr
}

// Classify returns the ErrorClass of err, or "" if err is not one of the
// client's error types.
func Classify(err error) ErrorClass {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Class()
	}
	var protocolErr *ProtocolError
	if errors.As(err, &protocolErr) {
		return ErrorClassProtocol
	}
	return ""
}
