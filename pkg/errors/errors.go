package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure the way the contest views need to react to it.
// The distinction matters at the edge: a missed registration window renders a
// dedicated terminal state, an auth failure redirects to login, a data error
// means the upstream judge violated its contract.
type Kind string

const (
	KindData                   Kind = "DATA_ERROR"
	KindNotFound               Kind = "NOT_FOUND_OR_UNAVAILABLE"
	KindMissedWindow           Kind = "MISSED_WINDOW"
	KindAuthRequired           Kind = "AUTHENTICATION_REQUIRED"
	KindContestNotJoinable     Kind = "CONTEST_NOT_JOINABLE"
	KindRegistrationFailed     Kind = "REGISTRATION_FAILED"
	KindLeaderboardUnavailable Kind = "LEADERBOARD_FETCH_FAILED"
)

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Helper functions to create specific errors
func DataError(msg string) *AppError {
	// Upstream sent a contest the engine cannot interpret. Surfaced as a bad
	// gateway, never retried.
	return NewAppError(KindData, http.StatusBadGateway, msg)
}

func NotFoundOrUnavailable(msg string) *AppError {
	return NewAppError(KindNotFound, http.StatusNotFound, msg)
}

func MissedWindow(msg string) *AppError {
	return NewAppError(KindMissedWindow, http.StatusGone, msg)
}

func AuthenticationRequired(msg string) *AppError {
	return NewAppError(KindAuthRequired, http.StatusUnauthorized, msg)
}

func ContestNotJoinable(msg string) *AppError {
	return NewAppError(KindContestNotJoinable, http.StatusForbidden, msg)
}

func RegistrationFailed(msg string) *AppError {
	return NewAppError(KindRegistrationFailed, http.StatusBadGateway, msg)
}

func LeaderboardUnavailable(msg string) *AppError {
	return NewAppError(KindLeaderboardUnavailable, http.StatusBadGateway, msg)
}

// KindOf extracts the Kind from any error chain; unknown errors report as
// NotFoundOrUnavailable so the views always have a terminal state to render.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindNotFound
}

// StatusOf maps any error to the HTTP status the gateway responds with.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
