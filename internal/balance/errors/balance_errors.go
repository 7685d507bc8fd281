package balanceerrors

import (
	"net/http"

	"go-faculty-leave/internal/shared/apperror"
)

var (
	ErrMissingDateJoined = apperror.New(
		apperror.CodeInvalidInput,
		"date of joining is not set",
		http.StatusBadRequest,
	)
	ErrYearBeforeJoining = apperror.New(
		apperror.CodeInvalidInput,
		"year precedes date of joining",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrRolloverInProgress = apperror.New(
		apperror.CodeConflict,
		"rollover already running for this year",
		http.StatusConflict,
	)
)
