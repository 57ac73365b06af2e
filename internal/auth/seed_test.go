package auth

import (
	"context"
	"log/slog"
	"testing"
)

func testBootstrap() Bootstrap {
	return Bootstrap{
		FirstName: "Site",
		LastName:  "Admin",
		Email:     "admin@example.com",
		Password:  "Configured-Admin-Password-1!",
	}
}

func TestSeedAdmin_EmptyDatabase(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)

	generated, err := SeedAdmin(context.Background(), repo, testBootstrap(), slog.Default())
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if generated != "" {
		t.Error("SeedAdmin() should not generate a password when one is configured")
	}

	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if admin.Role != RoleAdmin {
		t.Errorf("seeded role = %q, want %q", admin.Role, RoleAdmin)
	}
	if !VerifyPassword("Configured-Admin-Password-1!", admin.PasswordHash) {
		t.Error("configured password should verify against the seeded hash")
	}
}

func TestSeedAdmin_GeneratesPasswordWhenUnset(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)

	boot := testBootstrap()
	boot.Password = ""

	generated, err := SeedAdmin(context.Background(), repo, boot, slog.Default())
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if generated == "" {
		t.Fatal("SeedAdmin() should generate a password when none is configured")
	}

	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if !VerifyPassword(generated, admin.PasswordHash) {
		t.Error("generated password should verify against the seeded hash")
	}
}

func TestSeedAdmin_SkipsWhenAccountsExist(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)

	seedTestAccount(t, db, "existing@example.com", RoleCustomer)

	if _, err := SeedAdmin(context.Background(), repo, testBootstrap(), slog.Default()); err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 (seed should be skipped)", count)
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{"first.last@sub.example.co.uk", true},
		{"", false},
		{"no-at-sign", false},
		{"two@@x.com", false},
		{"spaces in@x.com", false},
		{"nodot@domain", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestRole_IsStaff(t *testing.T) {
	if RoleCustomer.IsStaff() {
		t.Error("Customer should not be staff")
	}
	if !RoleEmployee.IsStaff() {
		t.Error("Employee should be staff")
	}
	if !RoleAdmin.IsStaff() {
		t.Error("Admin should be staff")
	}
	if Role("Manager").IsStaff() {
		t.Error("unknown role should not be staff")
	}
}
