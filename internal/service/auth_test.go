package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
	"github.com/catatuang/catatuang-gateway/internal/infra/cache"
	"github.com/catatuang/catatuang-gateway/internal/infra/observability"
	"github.com/catatuang/catatuang-gateway/internal/infra/session"
	"github.com/catatuang/catatuang-gateway/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockUpstreamAuth struct {
	creds      *domain.Credentials
	user       *domain.User
	err        error
	logoutErr  error
	logoutHits int
}

func (m *mockUpstreamAuth) Login(_ context.Context, _ *domain.LoginRequest) (*domain.Credentials, error) {
	return m.creds, m.err
}

func (m *mockUpstreamAuth) Register(_ context.Context, _ *domain.RegisterRequest) (*domain.Credentials, error) {
	return m.creds, m.err
}

func (m *mockUpstreamAuth) Logout(_ context.Context) error {
	m.logoutHits++
	return m.logoutErr
}

func (m *mockUpstreamAuth) GetProfile(_ context.Context) (*domain.User, error) {
	return m.user, m.err
}

func (m *mockUpstreamAuth) UpdateProfile(_ context.Context, _ *domain.UpdateProfileRequest) (*domain.User, error) {
	return m.user, m.err
}

type recordingStore struct {
	sessions map[string]*session.Session
	puts     int
	deletes  int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{sessions: make(map[string]*session.Session)}
}

func (s *recordingStore) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *recordingStore) Put(_ context.Context, sess *session.Session) error {
	cp := *sess
	s.sessions[sess.ID] = &cp
	s.puts++
	return nil
}

func (s *recordingStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	s.deletes++
	return nil
}

func newAuthService(api *mockUpstreamAuth, store session.Store) *service.AuthService {
	return service.NewAuthService(
		api,
		store,
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		"test-secret",
		time.Hour,
	)
}

// --- Tests ---

func TestLogin_Success(t *testing.T) {
	user := &domain.User{ID: 1, Name: "Budi", Email: "budi@mail.com"}
	api := &mockUpstreamAuth{creds: &domain.Credentials{Token: "upstream-tok", User: user}}
	store := newRecordingStore()
	svc := newAuthService(api, store)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Login: "budi", Password: "rahasia"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a gateway token")
	}
	if resp.User != user {
		t.Errorf("expected the upstream user in the response")
	}
	if store.puts != 1 {
		t.Errorf("expected exactly one session stored, got %d", store.puts)
	}

	// The gateway token must resolve back to the stored session.
	claims, err := svc.ValidateAccessToken(resp.Token)
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	sess, err := svc.Resolve(context.Background(), claims.Sub)
	if err != nil {
		t.Fatalf("session should resolve: %v", err)
	}
	if sess.Token != "upstream-tok" {
		t.Errorf("expected upstream token in session, got %q", sess.Token)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newAuthService(&mockUpstreamAuth{}, newRecordingStore())

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Login: "budi"})

	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLogin_BadCredentialsStoresNothing(t *testing.T) {
	api := &mockUpstreamAuth{err: &domain.ErrUnauthorized{Message: "Unauthenticated."}}
	store := newRecordingStore()
	svc := newAuthService(api, store)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Login: "budi", Password: "salah"})

	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if unauth.Message != "Email/username atau password salah" {
		t.Errorf("expected mapped message, got %q", unauth.Message)
	}
	if store.puts != 0 {
		t.Errorf("a failed login must not persist a session, got %d puts", store.puts)
	}
}

func TestLogin_IncompleteCredentials(t *testing.T) {
	api := &mockUpstreamAuth{creds: &domain.Credentials{Token: "", User: nil}}
	store := newRecordingStore()
	svc := newAuthService(api, store)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Login: "budi", Password: "rahasia"})

	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if store.puts != 0 {
		t.Errorf("expected no session stored, got %d puts", store.puts)
	}
}

func TestLogout_ClearsSessionEvenWhenUpstreamFails(t *testing.T) {
	api := &mockUpstreamAuth{logoutErr: errors.New("upstream down")}
	store := newRecordingStore()
	store.Put(context.Background(), &session.Session{ID: "sess-1", Token: "tok"})
	svc := newAuthService(api, store)

	if err := svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("logout must succeed locally, got %v", err)
	}
	if api.logoutHits != 1 {
		t.Errorf("expected one upstream logout attempt, got %d", api.logoutHits)
	}
	if _, err := store.Get(context.Background(), "sess-1"); err != session.ErrNotFound {
		t.Errorf("expected session cleared, got %v", err)
	}
}

func TestCheckAuth_InvalidatesOnUpstreamRejection(t *testing.T) {
	api := &mockUpstreamAuth{err: &domain.ErrUnauthorized{}}
	store := newRecordingStore()
	store.Put(context.Background(), &session.Session{ID: "sess-1", Token: "dead"})
	svc := newAuthService(api, store)

	_, err := svc.CheckAuth(context.Background(), "sess-1")

	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := store.Get(context.Background(), "sess-1"); err != session.ErrNotFound {
		t.Errorf("expected session invalidated, got %v", err)
	}
}

func TestCheckAuth_RefreshesUser(t *testing.T) {
	fresh := &domain.User{ID: 1, Name: "Budi Baru"}
	api := &mockUpstreamAuth{user: fresh}
	store := newRecordingStore()
	store.Put(context.Background(), &session.Session{
		ID:    "sess-1",
		Token: "tok",
		User:  &domain.User{ID: 1, Name: "Budi Lama"},
	})
	svc := newAuthService(api, store)

	user, err := svc.CheckAuth(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name != "Budi Baru" {
		t.Errorf("expected refreshed user, got %q", user.Name)
	}

	sess, _ := store.Get(context.Background(), "sess-1")
	if sess.User.Name != "Budi Baru" {
		t.Errorf("expected session user refreshed, got %q", sess.User.Name)
	}
}

func TestHandleAuthLost_DeletesSession(t *testing.T) {
	store := newRecordingStore()
	store.Put(context.Background(), &session.Session{ID: "sess-1", Token: "dead"})
	svc := newAuthService(&mockUpstreamAuth{}, store)

	svc.HandleAuthLost(context.Background(), "sess-1")

	if _, err := store.Get(context.Background(), "sess-1"); err != session.ErrNotFound {
		t.Errorf("expected session deleted, got %v", err)
	}
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockUpstreamAuth{}, newRecordingStore())

	if _, err := svc.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Fatal("expected an error for a malformed token")
	}
}

func TestValidateAccessToken_RejectsForeignSecret(t *testing.T) {
	user := &domain.User{ID: 1, Name: "Budi"}
	api := &mockUpstreamAuth{creds: &domain.Credentials{Token: "tok", User: user}}
	issuer := newAuthService(api, newRecordingStore())

	resp, err := issuer.Login(context.Background(), &domain.LoginRequest{Login: "budi", Password: "x"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	verifier := service.NewAuthService(
		&mockUpstreamAuth{},
		newRecordingStore(),
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		"different-secret",
		time.Hour,
	)
	if _, err := verifier.ValidateAccessToken(resp.Token); err == nil {
		t.Fatal("expected rejection of a token signed with another secret")
	}
}
