package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Kind groups codes into the categories callers branch on.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthorization  Kind = "authorization"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindInfrastructure Kind = "infrastructure"
)

func kindOf(code string) Kind {
	switch code {
	case CodeInvalidInput:
		return KindValidation
	case CodeUnauthorized, CodeForbidden:
		return KindAuthorization
	case CodeConflict, CodeInvalidState:
		return KindConflict
	case CodeNotFound:
		return KindNotFound
	default:
		return KindInfrastructure
	}
}
