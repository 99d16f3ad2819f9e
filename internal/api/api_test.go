package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/legyenez/lgz/internal/shared"
)

func TestClient(t *testing.T) {
	t.Run("WithToken", func(t *testing.T) {
		t.Run("Derives Without Mutating", func(t *testing.T) {
			anon := New("http://localhost:8000", nil)
			authed := anon.WithToken("tok123")

			if anon.Token() != "" {
				t.Errorf("expected original client to stay anonymous, got token %q", anon.Token())
			}
			if authed.Token() != "tok123" {
				t.Errorf("expected derived client token 'tok123', got %q", authed.Token())
			}
		})

		t.Run("Attaches Bearer Header", func(t *testing.T) {
			var gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				json.NewEncoder(w).Encode(User{ID: "u1"})
			}))
			defer srv.Close()

			client := New(srv.URL, nil).WithToken("tok123")
			if _, err := client.Me(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "Bearer tok123" {
				t.Errorf("expected 'Bearer tok123' header, got %q", gotAuth)
			}
		})

		t.Run("Empty Token Drops Credential", func(t *testing.T) {
			client := New("http://localhost:8000", nil).WithToken("tok123").WithToken("")
			if client.Token() != "" {
				t.Errorf("expected empty token, got %q", client.Token())
			}
		})
	})

	t.Run("Unauthenticated Calls Fail Fast", func(t *testing.T) {
		client := New("http://localhost:8000", nil)

		if _, err := client.Me(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if _, err := client.ListVideos(context.Background(), 20); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Login", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/login" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}

			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["email"] != "a@b.com" || body["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
				return
			}

			json.NewEncoder(w).Encode(TokenResponse{
				Token: "tok123",
				User:  User{ID: "u1", Name: "A", Email: "a@b.com"},
			})
		}))
		defer srv.Close()

		client := New(srv.URL, nil)

		t.Run("Success", func(t *testing.T) {
			resp, err := client.Login(context.Background(), "a@b.com", "secret")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.Token != "tok123" {
				t.Errorf("expected token 'tok123', got %q", resp.Token)
			}
			if resp.User.ID != "u1" {
				t.Errorf("expected user id 'u1', got %q", resp.User.ID)
			}
		})

		t.Run("Rejection Carries Detail", func(t *testing.T) {
			_, err := client.Login(context.Background(), "a@b.com", "wrong")
			if err == nil {
				t.Fatal("expected error for bad credentials")
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if apiErr.Status != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", apiErr.Status)
			}
			if apiErr.Detail != "Invalid credentials" {
				t.Errorf("expected backend detail, got %q", apiErr.Detail)
			}
		})
	})

	t.Run("ErrorMessage", func(t *testing.T) {
		t.Run("Uses Backend Detail", func(t *testing.T) {
			err := &Error{Status: 400, Detail: "Script not found"}
			if msg := ErrorMessage(err, "fallback"); msg != "Script not found" {
				t.Errorf("expected backend detail, got %q", msg)
			}
		})

		t.Run("Falls Back Without Detail", func(t *testing.T) {
			if msg := ErrorMessage(&Error{Status: 500}, "fallback"); msg != "fallback" {
				t.Errorf("expected fallback, got %q", msg)
			}
			if msg := ErrorMessage(errors.New("dial tcp: refused"), "fallback"); msg != "fallback" {
				t.Errorf("expected fallback for transport error, got %q", msg)
			}
		})
	})

	t.Run("ListVideos", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") != "20" {
				t.Errorf("expected limit=20, got %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode([]Video{
				{ID: "v2", ScriptID: "s1", Status: StatusProcessing},
				{ID: "v1", ScriptID: "s1", Status: StatusCompleted, Duration: 42.5},
			})
		}))
		defer srv.Close()

		client := New(srv.URL, nil).WithToken("tok123")
		videos, err := client.ListVideos(context.Background(), 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(videos) != 2 {
			t.Fatalf("expected 2 videos, got %d", len(videos))
		}
		if videos[0].Status != StatusProcessing {
			t.Errorf("expected processing status, got %s", videos[0].Status)
		}
		if !videos[1].Status.Terminal() {
			t.Error("completed status should be terminal")
		}
	})

	t.Run("DownloadVideo", func(t *testing.T) {
		payload := []byte("fake mp4 bytes")

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/videos/v1/download":
				w.Write(payload)
			default:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Video is not ready yet"})
			}
		}))
		defer srv.Close()

		client := New(srv.URL, nil).WithToken("tok123")

		t.Run("Streams Payload", func(t *testing.T) {
			var buf bytes.Buffer
			n, err := client.DownloadVideo(context.Background(), "v1", &buf)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if n != int64(len(payload)) || !bytes.Equal(buf.Bytes(), payload) {
				t.Errorf("expected %d payload bytes, got %d", len(payload), n)
			}
		})

		t.Run("Rejects Unready Video", func(t *testing.T) {
			var buf bytes.Buffer
			_, err := client.DownloadVideo(context.Background(), "v2", &buf)
			if err == nil {
				t.Fatal("expected error for unready video")
			}
			if msg := ErrorMessage(err, ""); msg != "Video is not ready yet" {
				t.Errorf("expected backend detail, got %q", msg)
			}
		})
	})

	t.Run("GenerateVideo", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req GenerateVideoRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.ScriptID == "" || req.VoiceID == "" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(map[string]string{"detail": "script_id required"})
				return
			}
			json.NewEncoder(w).Encode(GenerateVideoResponse{ID: "v9", Status: StatusQueued})
		}))
		defer srv.Close()

		client := New(srv.URL, nil).WithToken("tok123")

		settings := DefaultVoiceSettings()
		resp, err := client.GenerateVideo(context.Background(), GenerateVideoRequest{
			ScriptID:      "s1",
			VoiceID:       DefaultVoiceID,
			VoiceSettings: &settings,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.Status != StatusQueued {
			t.Errorf("expected queued acknowledgement, got %s", resp.Status)
		}
	})
}
