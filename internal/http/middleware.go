package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/domain/model"
	"github.com/unievents/unievents-api/internal/ids"
	"github.com/unievents/unievents-api/internal/ports"
	"github.com/unievents/unievents-api/internal/service"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-Id"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("request_id", RequestIDFromContext(r.Context())),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, ErrorParams{Code: http.StatusInternalServerError, Message: MsgInternalError})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID tags each request with a ULID, reusing a well-formed inbound id.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if !ids.Valid(id) {
				id = ids.New()
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(SetRequestIDInContext(r.Context(), id)))
		})
	}
}

// RequireSession admits only requests whose session_token validates against
// the session manager. A present but dead token also clears the cookies.
func RequireSession(v ports.TrustedSessionValidator, cookies SessionCookies, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, err := v.ValidateRequest(r)
			switch {
			case errors.Is(err, ErrNoSessionCookie):
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: service.MsgNoSession})
				return
			case errors.Is(err, domainauth.ErrSessionInvalid):
				cookies.Clear(w)
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: service.MsgSessionExpired})
				return
			case err != nil:
				WriteAppError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sc)))
		})
	}
}

// Authorizer answers workspace-scoped access questions.
type Authorizer interface {
	Can(ctx context.Context, userID, workspaceID, permission string) (bool, error)
	Membership(ctx context.Context, userID, workspaceID string) (*model.Member, error)
}

// RequireMembership admits members of the {workspaceID} path workspace.
// It must run after RequireSession.
func RequireMembership(authz Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := SessionFromContext(r.Context())
			if !ok {
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: service.MsgNoSession})
				return
			}
			m, err := authz.Membership(r.Context(), sc.UserID, r.PathValue("workspaceID"))
			if err != nil {
				WriteAppError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(setMembershipInContext(r.Context(), m)))
		})
	}
}

// RequirePermission admits callers whose role in the {workspaceID} path
// workspace grants permission. Lookup failures deny with a 500.
// It must run after RequireSession.
func RequirePermission(authz Authorizer, permission string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := SessionFromContext(r.Context())
			if !ok {
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: service.MsgNoSession})
				return
			}
			allowed, err := authz.Can(r.Context(), sc.UserID, r.PathValue("workspaceID"), permission)
			if err != nil {
				WriteAppError(w, r, logger, err)
				return
			}
			if !allowed {
				WriteError(w, ErrorParams{Code: http.StatusForbidden, Message: service.MsgForbidden})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// chain applies middlewares so the first one listed runs first.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
