package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forecourthq/forecourt/internal/auth"
)

func TestVerifySession_NoCookieIsAnonymous(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / without cookie = %d, want 200", rec.Code)
	}
	if c := responseCookie(rec, sessionCookieName); c != nil {
		t.Errorf("anonymous request should not touch the session cookie, got %v", c)
	}
}

func TestVerifySession_MalformedCookieRedirects(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/", &http.Cookie{Name: sessionCookieName, Value: "not-a-token"})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("GET / with garbage cookie = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/login" {
		t.Errorf("Location = %q, want /account/login", loc)
	}

	cleared := responseCookie(rec, sessionCookieName)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Errorf("bad session cookie should be cleared, got %v", cleared)
	}
}

func TestVerifySession_WrongSignatureRedirects(t *testing.T) {
	s := newTestServer(t)

	// Token signed with a different secret: structurally valid, untrusted.
	foreign := auth.NewCodec("another-secret-another-secret-xx", time.Hour)
	token, err := foreign.Issue(auth.Identity{
		AccountID: 1,
		FirstName: "Eve",
		LastName:  "Intruder",
		Email:     "eve@example.com",
		Role:      auth.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("issuing foreign token: %v", err)
	}

	rec := get(t, s, "/inv/", &http.Cookie{Name: sessionCookieName, Value: token})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("GET /inv/ with forged cookie = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/login" {
		t.Errorf("Location = %q, want /account/login", loc)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/account/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("anonymous GET /account/ = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/login" {
		t.Errorf("Location = %q, want /account/login", loc)
	}

	account := seedAccount(t, s, "customer@example.com", auth.RoleCustomer)
	rec = get(t, s, "/account/", sessionCookie(t, s, account))
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated GET /account/ = %d, want 200", rec.Code)
	}
}

func TestRequireStaff(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		role     auth.Role
		email    string
		wantCode int
	}{
		{"customer rejected", auth.RoleCustomer, "c@example.com", http.StatusSeeOther},
		{"employee admitted", auth.RoleEmployee, "e@example.com", http.StatusOK},
		{"admin admitted", auth.RoleAdmin, "a@example.com", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := seedAccount(t, s, tt.email, tt.role)
			rec := get(t, s, "/inv/", sessionCookie(t, s, account))
			if rec.Code != tt.wantCode {
				t.Errorf("GET /inv/ as %s = %d, want %d", tt.role, rec.Code, tt.wantCode)
			}
		})
	}
}

func TestRequireStaff_AnonymousGetsLoginPrompt(t *testing.T) {
	s := newTestServer(t)

	// The authenticated gate runs first, so an anonymous visitor is asked
	// to log in rather than told about staff roles.
	rec := get(t, s, "/inv/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("anonymous GET /inv/ = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/login" {
		t.Errorf("Location = %q, want /account/login", loc)
	}

	flash := responseCookie(rec, flashCookieName)
	if flash == nil {
		t.Fatal("expected a flash notice on the redirect")
	}
	carried := httptest.NewRequest(http.MethodGet, "/account/login", nil)
	carried.AddCookie(flash)
	messages := readFlashes(carried)
	if len(messages) != 1 || messages[0] != "Please log in." {
		t.Errorf("flash = %v, want the login prompt", messages)
	}
}

func TestRequireStaff_CustomerSessionSurvivesRejection(t *testing.T) {
	s := newTestServer(t)

	account := seedAccount(t, s, "customer@example.com", auth.RoleCustomer)
	cookie := sessionCookie(t, s, account)

	rec := get(t, s, "/inv/", cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("GET /inv/ as customer = %d, want 303", rec.Code)
	}
	// The customer is turned away but stays logged in.
	if cleared := responseCookie(rec, sessionCookieName); cleared != nil {
		t.Errorf("staff gate should not clear a valid customer session, got %v", cleared)
	}

	rec = get(t, s, "/account/", cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /account/ after staff rejection = %d, want 200", rec.Code)
	}
}

func TestAnonymousCanBrowseCatalogue(t *testing.T) {
	s := newTestServer(t)

	c, err := s.inventory.AddClassification(context.Background(), "SUV")
	if err != nil {
		t.Fatalf("AddClassification: %v", err)
	}

	rec := get(t, s, "/inv/type/1")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /inv/type/%d = %d, want 200", c.ID, rec.Code)
	}
}

func TestNotFoundPage(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/no-such-page")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /no-such-page = %d, want 404", rec.Code)
	}
}
