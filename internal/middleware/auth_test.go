package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"folio/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(pending bool) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@folio.local",
		DisplayName: "Test User",
		Pending2FA:  pending,
	}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession(false)
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got == nil || got.Email != sess.Email {
			t.Fatalf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := session.NewStore(client, false)

	// Create a real session to get a cookie.
	w := httptest.NewRecorder()
	sess := newTestSession(false)
	if _, err := store.Create(context.Background(), w, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cookie := w.Result().Cookies()[0]

	var got *session.Data
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromCtx(r.Context())
	}))

	t.Run("loads session from cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got == nil || got.UserID != sess.UserID {
			t.Fatalf("session = %+v, want user %s", got, sess.UserID)
		}
	})

	t.Run("no cookie proceeds without session", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("store failure proceeds without session", func(t *testing.T) {
		got = nil
		mr.Set("session:"+cookie.Value, "garbage")
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if got != nil {
			t.Errorf("expected nil session on store error, got %+v", got)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name         string
		session      *session.Data
		htmx         bool
		wantCode     int
		wantLocation string
		wantHXTarget string
		wantCalled   bool
	}{
		{
			name:         "redirects to login with next when no session",
			wantCode:     http.StatusSeeOther,
			wantLocation: "/login?next=%2Fapp%2Fportfolios",
		},
		{
			name:         "htmx request gets HX-Redirect",
			htmx:         true,
			wantCode:     http.StatusUnauthorized,
			wantHXTarget: "/login",
		},
		{
			name:         "pending 2FA goes to verify",
			session:      newTestSession(true),
			wantCode:     http.StatusSeeOther,
			wantLocation: "/2fa/verify",
		},
		{
			name:       "passes through when authenticated",
			session:    newTestSession(false),
			wantCode:   http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			handler := RequireAuth(inner)

			req := httptest.NewRequest(http.MethodGet, "/app/portfolios", nil)
			if tt.session != nil {
				req = req.WithContext(WithSession(req.Context(), tt.session))
			}
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if *called != tt.wantCalled {
				t.Errorf("next called: got %v, want %v", *called, tt.wantCalled)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantLocation != "" && rr.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location: got %q, want %q", rr.Header().Get("Location"), tt.wantLocation)
			}
			if tt.wantHXTarget != "" && rr.Header().Get("HX-Redirect") != tt.wantHXTarget {
				t.Errorf("HX-Redirect: got %q, want %q", rr.Header().Get("HX-Redirect"), tt.wantHXTarget)
			}
		})
	}
}
