package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"aspiro-server/internal/domain"
	"aspiro-server/internal/repository"
	"aspiro-server/internal/repository/sqlite"
)

func newTestUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return repo
}

func testUser(id, email string) *domain.User {
	return &domain.User{
		ID:           id,
		FirstName:    "A",
		LastName:     "B",
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehash",
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("u1", "a@b.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != "a@b.com" {
		t.Fatalf("expected a@b.com, got %s", byID.Email)
	}
	if byID.CreatedAt.IsZero() || byID.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	byEmail, err := repo.GetByEmail(ctx, "A@B.COM")
	if err != nil {
		t.Fatalf("GetByEmail case-insensitive: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Fatalf("expected u1, got %s", byEmail.ID)
	}
}

func TestUserRepository_DuplicateEmailCaseFolded(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("u1", "a@b.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := repo.Create(ctx, testUser("u2", "A@B.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "missing@b.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByEmail: expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateResetFields(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("u1", "a@b.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	user.ResetToken = "some-reset-token"
	user.ResetTokenExpires = &expires
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update set reset fields: %v", err)
	}

	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ResetToken != "some-reset-token" {
		t.Fatalf("expected reset token persisted, got %q", got.ResetToken)
	}
	if got.ResetTokenExpires == nil || !got.ResetTokenExpires.Equal(expires) {
		t.Fatalf("expected reset expiry %v, got %v", expires, got.ResetTokenExpires)
	}

	got.ResetToken = ""
	got.ResetTokenExpires = nil
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update clear reset fields: %v", err)
	}

	cleared, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cleared.ResetToken != "" || cleared.ResetTokenExpires != nil {
		t.Fatal("expected reset fields cleared together")
	}
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	repo := newTestUserRepo(t)

	err := repo.Update(context.Background(), testUser("ghost", "ghost@b.com"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateDuplicateEmail(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("u1", "a@b.com")); err != nil {
		t.Fatalf("Create u1: %v", err)
	}
	if err := repo.Create(ctx, testUser("u2", "c@d.com")); err != nil {
		t.Fatalf("Create u2: %v", err)
	}

	user, err := repo.GetByID(ctx, "u2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	user.Email = "A@B.com"
	if err := repo.Update(ctx, user); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}
