package departmenterrors

import (
	"net/http"

	"go-faculty-leave/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Department not found",
		http.StatusNotFound,
	)

	ErrDepartmentAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Department with the same code already exists",
		http.StatusConflict,
	)

	ErrDepartmentInUse = apperror.New(
		apperror.CodeConflict,
		"Department still has members",
		http.StatusConflict,
	)

	ErrInvalidDepartmentCode = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid department code",
		http.StatusBadRequest,
	)
)
