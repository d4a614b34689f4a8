// Package service orchestrates upstream calls, sessions and aggregation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
	"github.com/catatuang/catatuang-gateway/internal/infra/catatuang"
	"github.com/catatuang/catatuang-gateway/internal/infra/observability"
	"github.com/catatuang/catatuang-gateway/internal/infra/session"
	"github.com/catatuang/catatuang-gateway/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

// AuthService owns the session lifecycle: it proxies login/register to the
// upstream, persists the returned token as one atomic session record, and
// issues gateway JWTs whose subject is the session ID.
type AuthService struct {
	api       port.UpstreamAuth
	sessions  session.Store
	cache     port.Cache[any]
	metrics   *observability.Metrics
	logger    *zap.Logger
	jwtSecret []byte
	jwtTTL    time.Duration
}

// NewAuthService creates the auth service.
func NewAuthService(
	api port.UpstreamAuth,
	sessions session.Store,
	cache port.Cache[any],
	metrics *observability.Metrics,
	logger *zap.Logger,
	jwtSecret string,
	jwtTTL time.Duration,
) *AuthService {
	return &AuthService{
		api:       api,
		sessions:  sessions,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
	}
}

// Login authenticates against the upstream. On success the session is
// persisted and a gateway token returned; on failure nothing is stored.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if req.Login == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Field: "login", Message: "Email/username dan password wajib diisi"}
	}

	creds, err := s.api.Login(ctx, req)
	if err != nil {
		var unauthorized *domain.ErrUnauthorized
		if errors.As(err, &unauthorized) {
			return nil, &domain.ErrUnauthorized{Message: "Email/username atau password salah"}
		}
		return nil, err
	}

	return s.openSession(ctx, creds, "login")
}

// Register creates an upstream account. Upstream 422 validation errors
// pass through with their field messages intact.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	creds, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, creds, "register")
}

func (s *AuthService) openSession(ctx context.Context, creds *domain.Credentials, via string) (*domain.AuthResponse, error) {
	if creds.Token == "" || creds.User == nil {
		return nil, &domain.ErrExternalService{Service: "catatuang", Err: errors.New("incomplete credentials payload")}
	}

	sess := &session.Session{
		ID:        uuid.NewString(),
		Token:     creds.Token,
		User:      creds.User,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.signToken(sess.ID)
	if err != nil {
		// Do not leave a session no one can reach.
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.metrics.IncrSessionEvent("created")
	s.logger.Info("session opened",
		zap.String("session_id", sess.ID),
		zap.Int64("user_id", creds.User.ID),
		zap.String("via", via),
	)

	return &domain.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtTTL.Seconds()),
		User:      creds.User,
	}, nil
}

// Logout revokes the upstream token best-effort and always clears the
// session: a local logout must succeed even when the upstream is down.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	ctx, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		if upErr := s.api.Logout(catatuang.WithAuth(ctx, sess.ID, sess.Token)); upErr != nil {
			s.logger.Warn("upstream logout failed, clearing session anyway",
				zap.String("session_id", sessionID),
				zap.Error(upErr),
			)
		}
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.cache.DeletePrefix(sessionID + ":")
	s.metrics.IncrSessionEvent("revoked")
	s.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

// CheckAuth verifies the session against the upstream by re-fetching the
// profile. Any failure invalidates the session, so stale tokens cannot
// linger.
func (s *AuthService) CheckAuth(ctx context.Context, sessionID string) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.CheckAuth")
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, &domain.ErrUnauthorized{}
	}

	user, err := s.api.GetProfile(catatuang.WithAuth(ctx, sess.ID, sess.Token))
	if err != nil {
		s.logger.Warn("session check failed, invalidating",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		_ = s.sessions.Delete(ctx, sessionID)
		s.cache.DeletePrefix(sessionID + ":")
		s.metrics.IncrSessionEvent("expired")
		return nil, &domain.ErrUnauthorized{Message: "Sesi berakhir, silakan login kembali"}
	}

	sess.User = user
	if err := s.sessions.Put(ctx, sess); err != nil {
		s.logger.Warn("failed to refresh session user", zap.Error(err))
	}
	return user, nil
}

// UpdateProfile proxies the profile update and refreshes the cached user.
func (s *AuthService) UpdateProfile(ctx context.Context, sessionID string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, &domain.ErrUnauthorized{}
	}

	user, err := s.api.UpdateProfile(catatuang.WithAuth(ctx, sess.ID, sess.Token), req)
	if err != nil {
		return nil, err
	}

	sess.User = user
	if err := s.sessions.Put(ctx, sess); err != nil {
		s.logger.Warn("failed to refresh session user", zap.Error(err))
	}
	return user, nil
}

// Resolve loads the session behind a validated gateway token.
// Used by the auth middleware on every protected request.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, &domain.ErrUnauthorized{Message: "Sesi berakhir, silakan login kembali"}
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// HandleAuthLost is wired as the upstream client's 401 callback: the
// moment the upstream rejects a token, the owning session dies with it.
func (s *AuthService) HandleAuthLost(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	_ = s.sessions.Delete(ctx, sessionID)
	s.cache.DeletePrefix(sessionID + ":")
	s.metrics.IncrSessionEvent("expired")
	s.logger.Info("upstream rejected token, session invalidated",
		zap.String("session_id", sessionID),
	)
}

// JWTClaims are the gateway access token claims.
type JWTClaims struct {
	Sub  string `json:"sub"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// ValidateAccessToken parses and verifies a gateway JWT.
func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Token tidak valid atau kedaluwarsa"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "Token tidak valid"}
	}

	if claims.Type != "session" {
		return nil, &domain.ErrUnauthorized{Message: "Jenis token tidak valid"}
	}

	return claims, nil
}

func (s *AuthService) signToken(sessionID string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:  sessionID,
		Type: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTTL)),
			Issuer:    "catatuang-gateway",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
