package arrangementerrors

import (
	"net/http"

	"go-faculty-leave/internal/shared/apperror"
)

var (
	ErrInvalidArrangementID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid arrangement id",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be accepted or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status must be pending, accepted or rejected",
		http.StatusBadRequest,
	)
	ErrArrangementNotFound = apperror.New(
		apperror.CodeNotFound,
		"arrangement not found",
		http.StatusNotFound,
	)
	ErrNotAssignedSubstitute = apperror.New(
		apperror.CodeForbidden,
		"only the assigned substitute can respond to this arrangement",
		http.StatusForbidden,
	)
	ErrSelfOverride = apperror.New(
		apperror.CodeForbidden,
		"cannot respond on behalf of a substitute for your own leave request",
		http.StatusForbidden,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeConflict,
		"arrangement already resolved",
		http.StatusConflict,
	)
)
