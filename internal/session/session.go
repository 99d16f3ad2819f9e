// Package session owns the authentication lifecycle: token acquisition,
// persistence, attachment, and fail-closed invalidation.
//
// A [Session] is the single mutation surface for auth state. Every other
// component obtains its HTTP client from [Session.Client]; the client is
// derived immutably per token, so credential changes never race with in-flight
// requests. Async results are guarded by an epoch counter: anything resolved
// under a stale epoch (a logout happened meanwhile) is discarded rather than
// resurrecting cleared state.
package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed"
)

// Result reports the outcome of a direct user action (login, register) as a
// structured value rather than an error: failures carry a human-readable
// message extracted from the backend payload.
type Result struct {
	OK      bool
	Message string
}

// Session holds the bearer token, the authenticated user record, and the
// derived API client. Zero value is not usable; construct with [New].
type Session struct {
	mu     sync.Mutex
	store  TokenStore
	logger *log.Logger

	client        *api.Client // always non-nil, derived from the current token
	token         string
	user          *api.User
	authenticated bool
	loading       bool
	epoch         uint64 // advances on every token transition
}

// New creates a Session around the given anonymous base client. The session
// starts in the loading state until [Session.Restore] settles it.
func New(base *api.Client, store TokenStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if store == nil {
		store = &MemoryStore{}
	}

	return &Session{
		store:   store,
		logger:  logger,
		client:  base.WithToken(""),
		loading: true,
	}
}

// Restore validates a persisted token, if any. Runs once at process start.
// With no stored token the session settles unauthenticated; with one, the
// token is validated against /auth/me and any failure is fail-closed (full
// logout). Never returns an error: the outcome is the resulting state.
func (s *Session) Restore(ctx context.Context) {
	token, err := s.store.Load()
	if err != nil || token == "" {
		if err != nil && err != shared.ErrNoToken {
			s.logger.Warn("failed to load stored token", "error", err)
		}
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.token = token
	s.client = s.client.WithToken(token)
	s.epoch++
	s.mu.Unlock()

	s.fetchUser(ctx)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Login exchanges credentials for a session. On failure no session state is
// mutated; on success the token is persisted and an authenticated client is
// derived.
func (s *Session) Login(ctx context.Context, email, password string) Result {
	resp, err := s.anonymous().Login(ctx, email, password)
	if err != nil {
		return Result{OK: false, Message: api.ErrorMessage(err, loginFallback)}
	}

	s.adopt(resp)
	return Result{OK: true}
}

// Register creates an account and adopts the returned session. Same contract
// as [Session.Login].
func (s *Session) Register(ctx context.Context, email, password, name string) Result {
	resp, err := s.anonymous().Register(ctx, email, password, name)
	if err != nil {
		return Result{OK: false, Message: api.ErrorMessage(err, registerFallback)}
	}

	s.adopt(resp)
	return Result{OK: true}
}

// Logout clears all session state and the persisted token. No network call;
// cannot fail. A store error is logged, never surfaced.
func (s *Session) Logout() {
	s.mu.Lock()
	s.logoutLocked()
	s.mu.Unlock()
}

// FetchUser refreshes the user record for the current token. Any failure is
// treated uniformly as an invalid session and triggers logout.
func (s *Session) FetchUser(ctx context.Context) {
	s.fetchUser(ctx)
}

// Client returns the API client derived from the current token. Callers must
// route every backend call through it to keep credential attachment in one place.
func (s *Session) Client() *api.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// User returns the authenticated user record, or nil.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether the user record was fetched under the current token.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Loading reports whether the initial restore attempt is still in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// GateState is the protected-view decision.
type GateState int

const (
	GateWaiting  GateState = iota // restore still in flight: render nothing yet
	GateRedirect                  // settled unauthenticated: go to login
	GateAllow                     // authenticated: render protected content
)

// Gate evaluates the protected-view contract for the current state. Callers
// re-evaluate on every use, not once.
func (s *Session) Gate() GateState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.loading:
		return GateWaiting
	case !s.authenticated:
		return GateRedirect
	default:
		return GateAllow
	}
}

// adopt installs a successful token response: persist, then swap state in one
// critical section.
func (s *Session) adopt(resp *api.TokenResponse) {
	if err := s.store.Save(resp.Token); err != nil {
		s.logger.Warn("failed to persist token", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := resp.User
	s.token = resp.Token
	s.user = &user
	s.authenticated = true
	s.loading = false
	s.client = s.client.WithToken(resp.Token)
	s.epoch++
}

// fetchUser validates the current token against /auth/me. The epoch captured
// before the call gates the write-back: a logout (or new login) in the
// meantime makes the result stale and it is dropped.
func (s *Session) fetchUser(ctx context.Context) {
	s.mu.Lock()
	client := s.client
	epoch := s.epoch
	s.mu.Unlock()

	user, err := client.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return
	}

	if err != nil {
		s.logger.Warn("failed to fetch user, invalidating session", "error", err)
		s.logoutLocked()
		return
	}

	s.user = user
	s.authenticated = true
}

// logoutLocked clears state under the caller's lock.
func (s *Session) logoutLocked() {
	s.token = ""
	s.user = nil
	s.authenticated = false
	s.client = s.client.WithToken("")
	s.epoch++

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear stored token", "error", err)
	}
}

// anonymous returns a credential-free client for login/register calls.
func (s *Session) anonymous() *api.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.WithToken("")
}
