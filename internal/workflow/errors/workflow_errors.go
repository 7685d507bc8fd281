package workflowerrors

import (
	"net/http"

	"go-faculty-leave/internal/shared/apperror"
)

var (
	ErrLeaveFinalized = apperror.New(
		apperror.CodeConflict,
		"leave already finalized",
		http.StatusConflict,
	)
	ErrStageNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave is not awaiting this decision",
		http.StatusConflict,
	)
	ErrUnknownTrigger = apperror.New(
		apperror.CodeInternalError,
		"unknown workflow trigger",
		http.StatusInternalServerError,
	)
)
