package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

// testBackend serves the auth endpoints against a fixed valid token.
func testBackend(t *testing.T, validToken string) *httptest.Server {
	t.Helper()

	user := api.User{ID: "u1", Name: "A", Email: "a@b.com", CreatedAt: "2025-01-01T00:00:00"}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["email"] == "a@b.com" && body["password"] == "secret" {
				json.NewEncoder(w).Encode(api.TokenResponse{Token: validToken, User: user})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})

		case "/api/auth/register":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["email"] == "" || body["name"] == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Email already registered"})
				return
			}
			json.NewEncoder(w).Encode(api.TokenResponse{Token: validToken, User: user})

		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid token"})
				return
			}
			json.NewEncoder(w).Encode(user)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Restore", func(t *testing.T) {
		t.Run("No Stored Token Settles Unauthenticated", func(t *testing.T) {
			srv := testBackend(t, "tok123")
			defer srv.Close()

			s := New(api.New(srv.URL, nil), &MemoryStore{}, nil)
			if s.Gate() != GateWaiting {
				t.Error("expected waiting gate before restore")
			}

			s.Restore(ctx)

			if s.Loading() {
				t.Error("expected loading to settle after restore")
			}
			if s.Gate() != GateRedirect {
				t.Error("expected redirect gate without a token")
			}
		})

		t.Run("Valid Token Restores User", func(t *testing.T) {
			srv := testBackend(t, "tok123")
			defer srv.Close()

			store := &MemoryStore{}
			store.Save("tok123")

			s := New(api.New(srv.URL, nil), store, nil)
			s.Restore(ctx)

			if !s.Authenticated() {
				t.Fatal("expected authenticated session")
			}
			if s.User() == nil || s.User().ID != "u1" {
				t.Errorf("expected restored user u1, got %+v", s.User())
			}
			if s.Gate() != GateAllow {
				t.Error("expected allow gate after restore")
			}
		})

		t.Run("Rejected Token Fails Closed", func(t *testing.T) {
			srv := testBackend(t, "tok123")
			defer srv.Close()

			store := &MemoryStore{}
			store.Save("expired-token")

			s := New(api.New(srv.URL, nil), store, nil)
			s.Restore(ctx)

			if s.Token() != "" || s.User() != nil || s.Authenticated() {
				t.Errorf("expected fully cleared session, got token=%q user=%v auth=%v",
					s.Token(), s.User(), s.Authenticated())
			}
			if _, err := store.Load(); !errors.Is(err, shared.ErrNoToken) {
				t.Error("expected persisted token to be cleared")
			}
			if s.Loading() {
				t.Error("expected loading to settle after failed restore")
			}
		})

		t.Run("Network Failure Fails Closed", func(t *testing.T) {
			srv := testBackend(t, "tok123")
			srv.Close() // connection refused from here on

			store := &MemoryStore{}
			store.Save("tok123")

			s := New(api.New(srv.URL, nil), store, nil)
			s.Restore(ctx)

			if s.Authenticated() || s.Token() != "" {
				t.Error("expected fail-closed session on network error")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Success Populates Session", func(t *testing.T) {
			srv := testBackend(t, "tok123")
			defer srv.Close()

			store := &MemoryStore{}
			s := New(api.New(srv.URL, nil), store, nil)
			s.Restore(ctx)

			res := s.Login(ctx, "a@b.com", "secret")
			if !res.OK {
				t.Fatalf("expected login success, got %q", res.Message)
			}

			if s.Token() != "tok123" {
				t.Errorf("expected token 'tok123', got %q", s.Token())
			}
			if s.User() == nil || s.User().Email != "a@b.com" {
				t.Errorf("expected user record, got %+v", s.User())
			}
			if !s.Authenticated() || s.Gate() != GateAllow {
				t.Error("expected authenticated session with allow gate")
			}
			if tok, _ := store.Load(); tok != "tok123" {
				t.Errorf("expected persisted token, got %q", tok)
			}
			if s.Client().Token() != "tok123" {
				t.Error("expected derived client to carry the new token")
			}
		})

		t.Run("Failure Leaves State Untouched", func(t *testing.T) {
			srv := testBackend(t, "tok123")
			defer srv.Close()

			store := &MemoryStore{}
			s := New(api.New(srv.URL, nil), store, nil)
			s.Restore(ctx)

			res := s.Login(ctx, "a@b.com", "wrong")
			if res.OK {
				t.Fatal("expected login failure")
			}
			if res.Message != "Invalid credentials" {
				t.Errorf("expected backend detail message, got %q", res.Message)
			}

			if s.Token() != "" || s.User() != nil || s.Authenticated() {
				t.Error("failed login must not mutate session state")
			}
			if _, err := store.Load(); !errors.Is(err, shared.ErrNoToken) {
				t.Error("failed login must not persist a token")
			}
		})

		t.Run("Failure Without Detail Uses Fallback", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			s := New(api.New(srv.URL, nil), &MemoryStore{}, nil)
			res := s.Login(ctx, "a@b.com", "secret")
			if res.OK || res.Message != "Login failed" {
				t.Errorf("expected generic fallback message, got %+v", res)
			}
		})
	})

	t.Run("Register Adopts Session", func(t *testing.T) {
		srv := testBackend(t, "tok123")
		defer srv.Close()

		s := New(api.New(srv.URL, nil), &MemoryStore{}, nil)
		res := s.Register(ctx, "a@b.com", "secret", "A")
		if !res.OK {
			t.Fatalf("expected register success, got %q", res.Message)
		}
		if !s.Authenticated() || s.Token() != "tok123" {
			t.Error("expected authenticated session after register")
		}
	})

	t.Run("Logout", func(t *testing.T) {
		srv := testBackend(t, "tok123")
		defer srv.Close()

		store := &MemoryStore{}
		s := New(api.New(srv.URL, nil), store, nil)
		s.Restore(ctx)
		s.Login(ctx, "a@b.com", "secret")

		s.Logout()

		if s.Token() != "" || s.User() != nil || s.Authenticated() {
			t.Error("expected cleared session after logout")
		}
		if _, err := store.Load(); !errors.Is(err, shared.ErrNoToken) {
			t.Error("expected persisted token removed on logout")
		}
		if s.Gate() != GateRedirect {
			t.Error("expected redirect gate after logout")
		}
		if s.Client().Token() != "" {
			t.Error("expected anonymous client after logout")
		}
	})

	t.Run("Stale Fetch Result Is Discarded After Logout", func(t *testing.T) {
		arrived := make(chan struct{})
		release := make(chan struct{})

		user := api.User{ID: "u1", Email: "a@b.com"}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/me" {
				close(arrived)
				<-release
				json.NewEncoder(w).Encode(user)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		store := &MemoryStore{}
		store.Save("tok123")

		s := New(api.New(srv.URL, nil), store, nil)

		done := make(chan struct{})
		go func() {
			s.Restore(context.Background())
			close(done)
		}()

		<-arrived
		s.Logout()
		close(release)

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("restore did not finish")
		}

		// The in-flight /auth/me succeeded, but it resolved under a stale
		// epoch and must not resurrect the session.
		if s.Authenticated() || s.User() != nil || s.Token() != "" {
			t.Error("stale fetch result resurrected a logged-out session")
		}
	})
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lgz", "token")
	store := NewFileStore(path)

	t.Run("Empty Store Reports No Token", func(t *testing.T) {
		if _, err := store.Load(); !errors.Is(err, shared.ErrNoToken) {
			t.Errorf("expected ErrNoToken, got %v", err)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		if err := store.Save("tok123"); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		tok, err := store.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if tok != "tok123" {
			t.Errorf("expected 'tok123', got %q", tok)
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("second clear failed: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, shared.ErrNoToken) {
			t.Error("expected no token after clear")
		}
	})
}
