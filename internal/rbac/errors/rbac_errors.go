package rbacerrors

import (
	"net/http"

	"go-faculty-leave/internal/shared/apperror"
)

var (
	ErrPolicyNotLoaded = apperror.New(
		apperror.CodeServiceUnavailable,
		"Permission policy is not loaded",
		http.StatusServiceUnavailable,
	)

	ErrPermissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Permission not found",
		http.StatusNotFound,
	)
)
