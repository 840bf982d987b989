package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	apperrors "github.com/unievents/unievents-api/internal/errors"
)

// statusFor maps an application error code to an HTTP status. Unknown codes are 500.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError renders err for the client. AppErrors carry their own safe
// message; anything else is logged and reported as a bare 500.
func WriteAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := statusFor(appErr.Code)
		if status != http.StatusInternalServerError {
			WriteError(w, ErrorParams{Code: status, Message: appErr.Message, Details: appErr.Details})
			return
		}
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
		"error", err,
	)
	WriteError(w, ErrorParams{Code: http.StatusInternalServerError, Message: MsgInternalError})
}

func isSessionInvalid(err error) bool {
	return errors.Is(err, domainauth.ErrSessionInvalid)
}

// errNoSessionInContext signals a route wired without RequireSession.
var errNoSessionInContext = errors.New("handler reached without a validated session")
