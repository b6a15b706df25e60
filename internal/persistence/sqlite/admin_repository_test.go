package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/Molina8/bodamariayaitor/internal/persistence"
)

func TestAdminRepository_CreateAndGet(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	if err := storage.Admins.CreateAdmin(ctx, persistence.AdminUser{
		ID:           "admin-1",
		Email:        " Maria@Example.com ",
		PasswordHash: "hash",
	}); err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}

	admin, err := storage.Admins.GetAdminByEmail(ctx, "maria@example.com")
	if err != nil {
		t.Fatalf("GetAdminByEmail failed: %v", err)
	}
	if admin.ID != "admin-1" {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if admin.Email != "maria@example.com" {
		t.Fatalf("expected normalized email, got %q", admin.Email)
	}

	// Lookups normalize the same way inserts do.
	if _, err := storage.Admins.GetAdminByEmail(ctx, "MARIA@example.com "); err != nil {
		t.Fatalf("expected case-insensitive lookup: %v", err)
	}
}

func TestAdminRepository_GetAdminByEmail_NotFound(t *testing.T) {
	storage := setupStorageTest(t)

	if _, err := storage.Admins.GetAdminByEmail(context.Background(), "nadie@example.com"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminRepository_CreateAdmin_RejectsDuplicateEmail(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	admin := persistence.AdminUser{ID: "admin-1", Email: "maria@example.com", PasswordHash: "hash"}
	if err := storage.Admins.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}

	admin.ID = "admin-2"
	if err := storage.Admins.CreateAdmin(ctx, admin); !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAdminRepository_CreateAdmin_RejectsMissingFields(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	cases := []persistence.AdminUser{
		{Email: "maria@example.com", PasswordHash: "hash"},
		{ID: "admin-1", Email: "maria@example.com"},
	}
	for _, admin := range cases {
		if err := storage.Admins.CreateAdmin(ctx, admin); !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation for %+v, got %v", admin, err)
		}
	}
}
