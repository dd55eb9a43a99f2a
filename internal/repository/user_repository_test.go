package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/repository"
	"github.com/tregeagle/finagle/internal/testutil"
)

// TestUserRepository_GetByUsername tests lookups by username.
//
// WHY: GetOrCreateUser depends on the not-found sentinel to decide
// whether a new account is needed.
func TestUserRepository_GetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	user := testutil.CreateUser(t, db, testutil.MakeUsername("alice"))

	t.Run("finds existing user", func(t *testing.T) {
		got, err := repo.GetByUsername(context.Background(), user.Username)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("Expected ID %s, got %s", user.ID, got.ID)
		}
		if !got.CreatedAt.Equal(user.CreatedAt) {
			t.Errorf("Expected created_at %v, got %v", user.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.GetByUsername(context.Background(), "nobody")
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got: %v", err)
		}
	})
}

// TestUserRepository_InsertDuplicate tests the unique username constraint.
func TestUserRepository_InsertDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	user := testutil.CreateUser(t, db, "dup")

	user.ID = testutil.MakeID()
	if err := repo.Insert(context.Background(), user); err == nil {
		t.Fatal("Expected error inserting duplicate username")
	}
	testutil.AssertRowCount(t, db, "app_user", 1)
}

// TestUserRepository_Delete tests deleting a user.
//
// WHY: Deleting an account must remove its transactions through the
// foreign key cascade, otherwise orphaned rows would leak into later users.
func TestUserRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := testutil.CreateUser(t, db, testutil.MakeUsername("bob"))
	testutil.NewTransaction(user.ID).Build(t, db)
	testutil.NewTransaction(user.ID).Sell().WithQuantity(50).Build(t, db)

	if err := repo.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	testutil.AssertRowCount(t, db, "app_user", 0)
	testutil.AssertRowCount(t, db, "stock_transaction", 0)

	if err := repo.Delete(context.Background(), user.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound on second delete, got: %v", err)
	}
}

func TestUserRepository_ListIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)

	ids, err := repo.ListIDs(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no users, got %d", len(ids))
	}

	testutil.CreateUser(t, db, "one")
	testutil.CreateUser(t, db, "two")

	ids, err = repo.ListIDs(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 users, got %d", len(ids))
	}
}
