package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFlash_RoundTrip(t *testing.T) {
	s := newTestServer(t)

	// Queue two notices on one response.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.addFlash(rec, req, "first notice")

	carried := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		carried.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	s.addFlash(rec2, carried, "second notice")

	// Present both cookies the way a browser would on the next request.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec2.Result().Cookies() {
		next.AddCookie(c)
	}

	rec3 := httptest.NewRecorder()
	messages := s.popFlashes(rec3, next)
	if len(messages) != 2 {
		t.Fatalf("popFlashes() = %v, want two notices", messages)
	}
	if messages[0] != "first notice" || messages[1] != "second notice" {
		t.Errorf("notices out of order: %v", messages)
	}

	cleared := responseCookie(rec3, flashCookieName)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Errorf("popFlashes() should clear the flash cookie, got %v", cleared)
	}
}

func TestFlash_TamperedCookieIgnored(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "%%not-base64%%"})

	if messages := s.popFlashes(httptest.NewRecorder(), req); messages != nil {
		t.Errorf("popFlashes() with garbage cookie = %v, want nil", messages)
	}
}

func TestFlash_ShownOnceOnRenderedPage(t *testing.T) {
	s := newTestServer(t)

	// A bad session cookie flashes a notice and redirects to login.
	rec := get(t, s, "/account/", &http.Cookie{Name: sessionCookieName, Value: "junk"})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	var cookies []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			cookies = append(cookies, c)
		}
	}

	login := get(t, s, "/account/login", cookies...)
	if login.Code != http.StatusOK {
		t.Fatalf("login page = %d, want 200", login.Code)
	}
	if body := login.Body.String(); !strings.Contains(body, "Please log in.") {
		t.Error("login page should show the flashed notice")
	}

	// The notice does not survive a second visit.
	again := get(t, s, "/account/login")
	if body := again.Body.String(); strings.Contains(body, "Please log in.") {
		t.Error("flash notice should only be shown once")
	}
}
