package leaveerrors

import (
	"net/http"

	"go-faculty-leave/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of CL, EL, OOD, SCL, LOP, RH, ML, VL, COMP",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidSession = apperror.New(
		apperror.CodeInvalidInput,
		"session must be FN or AN",
		http.StatusBadRequest,
	)
	ErrInvalidHalfDayRange = apperror.New(
		apperror.CodeInvalidInput,
		"a single-day leave cannot start in the afternoon and end in the forenoon",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrTooManySubstitutes = apperror.New(
		apperror.CodeInvalidInput,
		"at most 4 substitutes can be nominated",
		http.StatusBadRequest,
	)
	ErrDuplicateSubstitute = apperror.New(
		apperror.CodeInvalidInput,
		"substitutes must be distinct",
		http.StatusBadRequest,
	)
	ErrSelfSubstitute = apperror.New(
		apperror.CodeInvalidInput,
		"requester cannot be their own substitute",
		http.StatusBadRequest,
	)
	ErrInvalidSubstitute = apperror.New(
		apperror.CodeInvalidInput,
		"substitute must be an existing active user",
		http.StatusBadRequest,
	)
	ErrRequesterNotFound = apperror.New(
		apperror.CodeNotFound,
		"requester not found",
		http.StatusNotFound,
	)
	ErrRequesterInactive = apperror.New(
		apperror.CodeForbidden,
		"inactive users cannot apply for leave",
		http.StatusForbidden,
	)
	ErrRequesterWithoutDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"requester has no department",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrLeaveForbidden = apperror.New(
		apperror.CodeForbidden,
		"not allowed to view this leave",
		http.StatusForbidden,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approve or reject",
		http.StatusBadRequest,
	)
	ErrNotDepartmentHod = apperror.New(
		apperror.CodeForbidden,
		"only the HOD of the requester's department can decide this stage",
		http.StatusForbidden,
	)
	ErrNotPrincipal = apperror.New(
		apperror.CodeForbidden,
		"only a principal or admin can decide this stage",
		http.StatusForbidden,
	)
	ErrSelfDecision = apperror.New(
		apperror.CodeForbidden,
		"requester cannot decide their own leave",
		http.StatusForbidden,
	)
)
