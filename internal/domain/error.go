package domain

import (
	"errors"
	"net/http"
)

// Domain errors. Call sites wrap them with context via fmt.Errorf("%w: ...").
var (
	// ErrNotFound - team, user or pull request does not exist (404)
	ErrNotFound = errors.New("resource not found")

	// ErrTeamExists - team name already taken (409)
	ErrTeamExists = errors.New("team already exists")

	// ErrPRExists - pull request id already taken (409)
	ErrPRExists = errors.New("pull request already exists")

	// ErrPRMerged - merged pull request cannot be modified (409)
	ErrPRMerged = errors.New("cannot modify merged pull request")

	// ErrNotAssigned - user is not a reviewer of the pull request (409)
	ErrNotAssigned = errors.New("user is not assigned as reviewer")

	// ErrNoCandidate - nobody is eligible to take over the review (409)
	ErrNoCandidate = errors.New("no active candidate available for assignment")

	// ErrInvalidArgument - malformed request (400)
	ErrInvalidArgument = errors.New("invalid argument")
)

type ErrorCode string

const (
	ErrorCodeTeamExists      ErrorCode = "TEAM_EXISTS"
	ErrorCodePRExists        ErrorCode = "PR_EXISTS"
	ErrorCodePRMerged        ErrorCode = "PR_MERGED"
	ErrorCodeNotAssigned     ErrorCode = "NOT_ASSIGNED"
	ErrorCodeNoCandidate     ErrorCode = "NO_CANDIDATE"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrorCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrTeamExists):
		return ErrorCodeTeamExists
	case errors.Is(err, ErrPRExists):
		return ErrorCodePRExists
	case errors.Is(err, ErrPRMerged):
		return ErrorCodePRMerged
	case errors.Is(err, ErrNotAssigned):
		return ErrorCodeNotAssigned
	case errors.Is(err, ErrNoCandidate):
		return ErrorCodeNoCandidate
	case errors.Is(err, ErrNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return ErrorCodeInvalidArgument
	default:
		return ErrorCodeInternal
	}
}

func GetHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTeamExists), errors.Is(err, ErrPRExists),
		errors.Is(err, ErrPRMerged), errors.Is(err, ErrNotAssigned),
		errors.Is(err, ErrNoCandidate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
