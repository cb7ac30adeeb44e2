package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when request fields are missing, malformed or out of range.
	ErrInvalidInput = errors.New("invalid inputs")
	// ErrUsernameTaken is returned when signing up with an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrUserNotFound is returned when logging in with an unknown username.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrIncorrectPassword is returned when the password does not match the stored hash.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrUnauthorized is returned when the bearer token is absent or malformed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidToken is returned when the bearer token fails verification or was revoked.
	ErrInvalidToken = errors.New("invalid token")
	// ErrBookingIDNotFound is returned by the read path when no booking has the given id.
	ErrBookingIDNotFound = errors.New("bookingId not found")
	// ErrBookingNotFound is returned by the update and delete paths when no booking has the given id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBookingsNotFound is returned when a summary is requested by a user without bookings.
	ErrBookingsNotFound = errors.New("Bookings not found")
	// ErrNotOwner is returned when the caller does not own the booking.
	ErrNotOwner = errors.New("booking does not belong to user")
	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ErrorResponse is the "err" member of the error envelope.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Detail     string
	Internal   error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Error:   e.Detail,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unrecognised is an unexpected failure and becomes a 500 carrying the cause internally.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var status int
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrIncorrectPassword),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, ErrBookingIDNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrBookingsNotFound):
		status = http.StatusNotFound
	default:
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "internal server error",
			Internal:   err,
		}
	}
	httpErr = &HTTPError{
		StatusCode: status,
		Message:    rootMessage(err),
		Internal:   err,
	}
	if detail := err.Error(); detail != httpErr.Message {
		httpErr.Detail = detail
	}
	return httpErr
}

// rootMessage returns the sentinel's text rather than the wrapped chain.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		ErrInvalidInput, ErrInvalidTransition, ErrUsernameTaken, ErrUserNotFound,
		ErrIncorrectPassword, ErrUnauthorized, ErrInvalidToken, ErrNotOwner,
		ErrBookingIDNotFound, ErrBookingNotFound, ErrBookingsNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
