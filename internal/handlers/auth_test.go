// auth_test.go covers the Auth handlers: login with and without 2FA, the
// code prompt, sign-up and logout.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"folio/internal/session"
)

// sessionFromResponse reads back the session a handler created.
func (env *testEnv) sessionFromResponse(t *testing.T, rec *httptest.ResponseRecorder) *session.Data {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	data, err := env.Sessions.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	return data
}

func loginForm(email, password, next string) string {
	v := url.Values{"email": {email}, "password": {password}}
	if next != "" {
		v.Set("next", next)
	}
	return v.Encode()
}

func TestLoginPage_RendersForm(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()

	env.Auth.LoginPage(rec, httptest.NewRequest(http.MethodGet, "/login?next=/app/settings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/login"`) {
		t.Error("login form missing from page")
	}
}

func TestLoginPage_SignedInRedirects(t *testing.T) {
	env := newTestEnv(t)
	req := env.withSession(t, httptest.NewRequest(http.MethodGet, "/login", nil), testSession(uuid.New(), false))
	rec := httptest.NewRecorder()

	env.Auth.LoginPage(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != appHome {
		t.Errorf("got %d %q, want 303 %q", rec.Code, rec.Header().Get("Location"), appHome)
	}
}

func TestLoginSubmit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		next     string
		wantCode int
		wantLoc  string
	}{
		{"valid credentials", "correct-horse", "", http.StatusSeeOther, appHome},
		{"honours next", "correct-horse", "/app/settings", http.StatusSeeOther, "/app/settings"},
		{"rejects offsite next", "correct-horse", "//evil.example", http.StatusSeeOther, appHome},
		{"wrong password", "wrong", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			p := env.Profiles.add("jane@example.com", "correct-horse")

			rec := httptest.NewRecorder()
			env.Auth.LoginSubmit(rec, formRequest(http.MethodPost, "/login", loginForm(p.Email, tt.password, tt.next)))

			if rec.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantLoc == "" {
				if !strings.Contains(rec.Body.String(), "Invalid email or password.") {
					t.Error("error message missing")
				}
				return
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location: got %q, want %q", loc, tt.wantLoc)
			}
			sess := env.sessionFromResponse(t, rec)
			if sess == nil || sess.UserID != p.ID || sess.Pending2FA {
				t.Errorf("session: got %+v, want signed in as %s", sess, p.ID)
			}
		})
	}
}

func TestLoginSubmit_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()

	env.Auth.LoginSubmit(rec, formRequest(http.MethodPost, "/login", loginForm("nobody@example.com", "whatever1", "")))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

// enable2FA turns TOTP on for p and returns the secret.
func enable2FA(t *testing.T, env *testEnv, id uuid.UUID) string {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: "jane@example.com"})
	if err != nil {
		t.Fatalf("totp generate: %v", err)
	}
	ctx := context.Background()
	env.Profiles.SetTOTPSecret(ctx, id, key.Secret())
	env.Profiles.EnableTOTP(ctx, id)
	return key.Secret()
}

func TestLoginSubmit_2FAEnabledIsPending(t *testing.T) {
	env := newTestEnv(t)
	p := env.Profiles.add("jane@example.com", "correct-horse")
	enable2FA(t, env, p.ID)

	rec := httptest.NewRecorder()
	env.Auth.LoginSubmit(rec, formRequest(http.MethodPost, "/login", loginForm(p.Email, "correct-horse", "")))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/2fa/verify" {
		t.Fatalf("got %d %q, want 303 /2fa/verify", rec.Code, rec.Header().Get("Location"))
	}
	if sess := env.sessionFromResponse(t, rec); sess == nil || !sess.Pending2FA {
		t.Errorf("session should be pending 2FA, got %+v", sess)
	}
}

func TestTwoFAVerifyPage(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no session goes to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Auth.TwoFAVerifyPage(rec, httptest.NewRequest(http.MethodGet, "/2fa/verify", nil))
		if rec.Header().Get("Location") != "/login" {
			t.Errorf("Location: got %q, want /login", rec.Header().Get("Location"))
		}
	})

	t.Run("completed session goes home", func(t *testing.T) {
		req := env.withSession(t, httptest.NewRequest(http.MethodGet, "/2fa/verify", nil), testSession(uuid.New(), false))
		rec := httptest.NewRecorder()
		env.Auth.TwoFAVerifyPage(rec, req)
		if rec.Header().Get("Location") != appHome {
			t.Errorf("Location: got %q, want %q", rec.Header().Get("Location"), appHome)
		}
	})

	t.Run("pending session sees prompt", func(t *testing.T) {
		req := env.withSession(t, httptest.NewRequest(http.MethodGet, "/2fa/verify", nil), testSession(uuid.New(), true))
		rec := httptest.NewRecorder()
		env.Auth.TwoFAVerifyPage(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.Code)
		}
	})
}

func TestTwoFAVerifySubmit(t *testing.T) {
	env := newTestEnv(t)
	p := env.Profiles.add("jane@example.com", "correct-horse")
	secret := enable2FA(t, env, p.ID)

	t.Run("wrong code", func(t *testing.T) {
		req := env.withSession(t, formRequest(http.MethodPost, "/2fa/verify", "code=000000"), testSession(p.ID, true))
		rec := httptest.NewRecorder()
		env.Auth.TwoFAVerifySubmit(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("valid code completes sign-in", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, time.Now())
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		req := env.withSession(t, formRequest(http.MethodPost, "/2fa/verify", "code="+code), testSession(p.ID, true))
		rec := httptest.NewRecorder()
		env.Auth.TwoFAVerifySubmit(rec, req)

		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != appHome {
			t.Fatalf("got %d %q, want 303 %q", rec.Code, rec.Header().Get("Location"), appHome)
		}
		stored, err := env.Sessions.Get(context.Background(), req)
		if err != nil || stored == nil {
			t.Fatalf("stored session: %v %v", stored, err)
		}
		if stored.Pending2FA {
			t.Error("session still pending after a valid code")
		}
	})
}

func TestSignupSubmit(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"email": {" Jane@Example.com "}, "password": {"long-enough"}, "display_name": {"Jane"}}.Encode()

	rec := httptest.NewRecorder()
	env.Auth.SignupSubmit(rec, formRequest(http.MethodPost, "/signup", form))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != appHome {
		t.Fatalf("got %d %q, want 303 %q", rec.Code, rec.Header().Get("Location"), appHome)
	}
	p, _ := env.Profiles.FindByEmail(context.Background(), "jane@example.com")
	if p == nil || p.Name() != "Jane" {
		t.Fatalf("profile not created: %+v", p)
	}
	if sess := env.sessionFromResponse(t, rec); sess == nil || sess.UserID != p.ID {
		t.Errorf("session: got %+v, want user %s", sess, p.ID)
	}

	t.Run("duplicate email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Auth.SignupSubmit(rec, formRequest(http.MethodPost, "/signup", form))
		if rec.Code != http.StatusConflict {
			t.Errorf("status: got %d, want 409", rec.Code)
		}
	})

	t.Run("short password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := url.Values{"email": {"other@example.com"}, "password": {"short"}}.Encode()
		env.Auth.SignupSubmit(rec, formRequest(http.MethodPost, "/signup", body))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status: got %d, want 422", rec.Code)
		}
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	req := env.withSession(t, httptest.NewRequest(http.MethodPost, "/logout", nil), testSession(uuid.New(), false))
	rec := httptest.NewRecorder()

	env.Auth.Logout(rec, req)

	if rec.Header().Get("Location") != "/login" {
		t.Errorf("Location: got %q, want /login", rec.Header().Get("Location"))
	}
	if data, _ := env.Sessions.Get(context.Background(), req); data != nil {
		t.Error("session still stored after logout")
	}
}
