package errors

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Status  int    `json:"-"`
	Code    Code   `json:"code"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given status, code and message.
func NewHTTPError(status int, code Code, message string) *HTTPError {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeDataShape:
		return http.StatusUnprocessableEntity
	case CodeRemoteIO:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTP converts any error into an HTTPError. Uncoded errors become
// internal errors with a generic message so causes never leak to clients.
func ToHTTP(err error) *HTTPError {
	code := GetCode(err)
	if code == "" {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
	}
	return NewHTTPError(HTTPStatus(code), code, UserMessage(err))
}

// Helper for common errors
var (
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, msg) }
)
