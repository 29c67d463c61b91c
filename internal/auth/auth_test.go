package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret")

	tok, err := a.IssueJWT("guest|abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sub != "guest|abc" {
		t.Fatalf("sub = %q, want guest|abc", c.Sub)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("guest|abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewAuthService("secret-b").Parse(tok); err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, err := a.IssueJWT("guest|abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotSub string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
	}))

	t.Run("valid bearer", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if gotSub != "guest|abc" {
			t.Fatalf("sub in context = %q", gotSub)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestGuestHandler(t *testing.T) {
	a := NewAuthService("test-secret")
	h := GuestHandler(a)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/guest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "access_token") {
		t.Fatalf("body missing token: %s", rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "nz_guest_id" {
			cookie = c
		}
	}
	if cookie == nil || !strings.HasPrefix(cookie.Value, "guest|") {
		t.Fatal("expected a guest cookie")
	}

	// a returning browser keeps its identity
	req := httptest.NewRequest("POST", "/auth/guest", nil)
	req.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if !strings.Contains(rec2.Body.String(), cookie.Value) {
		t.Fatalf("expected reissued identity %s, got %s", cookie.Value, rec2.Body.String())
	}
}
