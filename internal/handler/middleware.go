package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/catatuang/catatuang-gateway/internal/infra/catatuang"
	"github.com/catatuang/catatuang-gateway/internal/infra/session"
	"github.com/catatuang/catatuang-gateway/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const sessionKey contextKey = "session"

// JWTAuthMiddleware validates Bearer tokens, resolves the backing session
// and attaches both the session record and the upstream credentials to the
// request context. A token whose session was invalidated fails here with
// 401, which is how an upstream rejection propagates to the client.
func JWTAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "Token autentikasi tidak diberikan")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "Format token tidak valid")
				return
			}

			claims, err := authSvc.ValidateAccessToken(parts[1])
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			sess, err := authSvc.Resolve(r.Context(), claims.Sub)
			if err != nil {
				logger.Warn("auth: session gone",
					zap.String("session_id", claims.Sub),
					zap.Error(err),
				)
				handleServiceError(w, err, logger)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = catatuang.WithAuth(ctx, sess.ID, sess.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the authenticated session from context.
func SessionFromContext(ctx context.Context) *session.Session {
	v, _ := ctx.Value(sessionKey).(*session.Session)
	return v
}

// BasicAuthAdmin guards the internal endpoints with a bcrypt-checked
// password. An empty hash disables the routes entirely.
func BasicAuthAdmin(passwordHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				writeError(w, http.StatusNotFound, "not found")
				return
			}

			_, password, ok := r.BasicAuth()
			if !ok || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
				logger.Warn("admin: rejected credentials",
					zap.String("remote_addr", r.RemoteAddr),
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="catatuang-gateway"`)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
