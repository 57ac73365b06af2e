package web

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/forecourthq/forecourt/internal/auth"
	"github.com/forecourthq/forecourt/internal/infrastructure/config"
	"github.com/forecourthq/forecourt/internal/infrastructure/logging"
	"github.com/forecourthq/forecourt/internal/inventory"
)

const testSecret = "test-secret-0123456789-0123456789"

// testPassword satisfies the password policy.
const testPassword = "Str0ng-Passw0rd!"

// newTestServer builds a Server over a temporary SQLite database with the
// full schema applied.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "web-test.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE accounts (
			account_id    INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'Customer',
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		) STRICT;

		CREATE TABLE classifications (
			classification_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name              TEXT NOT NULL UNIQUE
		) STRICT;

		CREATE TABLE inventory (
			inv_id            INTEGER PRIMARY KEY AUTOINCREMENT,
			classification_id INTEGER NOT NULL,
			make              TEXT NOT NULL,
			model             TEXT NOT NULL,
			year              INTEGER NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			image             TEXT NOT NULL DEFAULT '/images/no-image.png',
			thumbnail         TEXT NOT NULL DEFAULT '/images/no-image-tn.png',
			price             REAL NOT NULL,
			miles             INTEGER NOT NULL,
			colour            TEXT NOT NULL,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL,
			FOREIGN KEY (classification_id) REFERENCES classifications(classification_id)
		) STRICT;
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Name = "Forecourt"
	cfg.App.Environment = config.EnvDevelopment
	cfg.Session.Secret = testSecret
	cfg.Session.TTLMinutes = 60

	logger := &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	s, err := New(Deps{
		Config:    cfg,
		Logger:    logger,
		Accounts:  auth.NewAccountRepository(db),
		Inventory: inventory.NewRepository(db),
		Codec:     auth.NewCodec(testSecret, time.Hour),
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

// seedAccount creates an account with the shared test password.
func seedAccount(t *testing.T, s *Server, email string, role auth.Role) *auth.Account {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	account := &auth.Account{
		FirstName:    "Terry",
		LastName:     "Tester",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(context.Background(), account); err != nil {
		t.Fatalf("creating account: %v", err)
	}
	return account
}

// sessionCookie issues a valid session cookie for the account.
func sessionCookie(t *testing.T, s *Server, account *auth.Account) *http.Cookie {
	t.Helper()

	token, err := s.codec.Issue(account.Identity())
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

// get performs a GET against the router.
func get(t *testing.T, s *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST against the router.
func postForm(t *testing.T, s *Server, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)
	return rec
}

// responseCookie finds a cookie set on the response, or nil.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
