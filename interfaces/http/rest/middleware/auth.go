package middleware

import (
	"errors"
	"net/http"
	"strings"

	"docspace/pkg/auth"
	pkgerrors "docspace/pkg/errors"
	"docspace/pkg/observability"

	"go.uber.org/zap"
)

// Authenticate verifies the bearer token, applies the per-user rate limit and
// stores the caller in the request context. limiter may be nil.
func Authenticate(
	verifier auth.TokenVerifier,
	limiter auth.RateLimiter,
	errs *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errs.HandleStatus(w, r, http.StatusUnauthorized, "Missing authentication token")
				return
			}

			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("Invalid token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, auth.ErrInvalidSignature):
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Invalid token signature")
				default:
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			if limiter != nil {
				allowed, err := limiter.Allow(r.Context(), user.UserID)
				if err != nil {
					logger.Error("User rate limiter error", zap.Error(err))
					errs.Handle(w, r, pkgerrors.NewUnavailableError("rate limiter").WithCause(err))
					return
				}
				if !allowed {
					if metrics != nil {
						metrics.RateLimited.Inc()
					}
					errs.Handle(w, r, pkgerrors.NewRateLimitedError())
					return
				}
			}

			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads a bearer token from the Authorization header. A bare
// token without the scheme is accepted too.
func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}
