// Package catatuang is the HTTP client for the remote CatatUang API.
// It owns bearer-token injection, envelope decoding, error mapping and
// the resilience wrapping (retry, circuit breaker, bulkhead).
package catatuang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/catatuang/catatuang-gateway/internal/domain"
	"github.com/catatuang/catatuang-gateway/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("infra/catatuang")

const maxBodyBytes = 4 << 20

type authKey struct{}

type authInfo struct {
	SessionID string
	Token     string
}

// WithAuth attaches the session credentials used for upstream calls.
// The client reads the token from context instead of holding global state,
// so one shared client serves every session.
func WithAuth(ctx context.Context, sessionID, token string) context.Context {
	return context.WithValue(ctx, authKey{}, authInfo{SessionID: sessionID, Token: token})
}

// AuthFromContext returns the session ID and token attached by WithAuth.
func AuthFromContext(ctx context.Context) (sessionID, token string) {
	info, _ := ctx.Value(authKey{}).(authInfo)
	return info.SessionID, info.Token
}

// AuthLostHandler is invoked when the upstream rejects a session token
// with 401, before the error propagates to the caller.
type AuthLostHandler func(ctx context.Context, sessionID string)

// Client calls the CatatUang REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	logger     *zap.Logger

	onAuthLost AuthLostHandler
}

// NewClient creates a CatatUang API client.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	maxConc := cfg.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 1
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(maxConc),
		cfg:        cfg,
		logger:     logger,
	}
}

// SetAuthLostHandler registers the callback fired on upstream 401s.
// Wired after construction because the auth service and the client
// reference each other.
func (c *Client) SetAuthLostHandler(fn AuthLostHandler) {
	c.onAuthLost = fn
}

// Ping checks upstream reachability. Used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/up", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ErrExternalService{Service: "catatuang", Err: err}
	}
	resp.Body.Close()
	return nil
}

// get performs an idempotent request with retry + circuit breaker.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			return c.roundTrip(ctx, http.MethodGet, path, query, nil, out)
		})
	})
	return c.wrap(path, err)
}

// send performs a mutating request: single attempt, breaker only.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, path, nil, body, out)
	})
	return c.wrap(path, err)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return resilience.Permanent(err)
	}
	defer c.bulkhead.Release()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return resilience.Permanent(err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return resilience.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	sessionID, token := AuthFromContext(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}

	var env domain.Envelope
	// Tolerate non-envelope bodies (proxies, HTML error pages).
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return resilience.Permanent(fmt.Errorf("decode %s response: %w", path, err))
			}
		}
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if token != "" && c.onAuthLost != nil {
			c.onAuthLost(ctx, sessionID)
		}
		msg := env.Message
		if msg == "" {
			msg = "Sesi berakhir, silakan login kembali"
		}
		return resilience.Permanent(&domain.ErrUnauthorized{Message: msg})
	case http.StatusUnprocessableEntity:
		return resilience.Permanent(&domain.ErrValidationFailed{
			Message: env.Message,
			Fields:  env.Errors,
		})
	case http.StatusNotFound:
		return resilience.Permanent(&domain.ErrNotFound{Resource: path, ID: ""})
	case http.StatusConflict:
		return resilience.Permanent(&domain.ErrConflict{Message: env.Message})
	case http.StatusForbidden:
		return resilience.Permanent(&domain.ErrForbidden{Action: path})
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return resilience.Permanent(fmt.Errorf("catatuang API returned status %d: %s", resp.StatusCode, env.Message))
	}
	return fmt.Errorf("catatuang API returned status %d", resp.StatusCode)
}

// wrap normalizes errors leaving the client: typed domain errors pass
// through stripped of the retry marker, everything else becomes
// ErrExternalService.
func (c *Client) wrap(path string, err error) error {
	if err == nil {
		return nil
	}
	var (
		unauthorized *domain.ErrUnauthorized
		validation   *domain.ErrValidationFailed
		notFound     *domain.ErrNotFound
		conflict     *domain.ErrConflict
		forbidden    *domain.ErrForbidden
	)
	switch {
	case errors.As(err, &unauthorized):
		return unauthorized
	case errors.As(err, &validation):
		return validation
	case errors.As(err, &notFound):
		return notFound
	case errors.As(err, &conflict):
		return conflict
	case errors.As(err, &forbidden):
		return forbidden
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: "catatuang"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: path}
	}
	c.logger.Warn("upstream call failed", zap.String("path", path), zap.Error(err))
	return &domain.ErrExternalService{Service: "catatuang", Err: err}
}

func span(ctx context.Context, name, path string) (context.Context, func()) {
	ctx, s := tracer.Start(ctx, name)
	s.SetAttributes(attribute.String("http.route", path))
	return ctx, func() { s.End() }
}
