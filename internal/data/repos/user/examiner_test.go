package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/testutil"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
)

func TestExaminerRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewExaminerRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.Examiner{
		{
			ID:       uuid.New(),
			Email:    "examinerrepo@example.com",
			Password: "pw",
			FullName: "Dr. Exam",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 examiner, got %d", len(created))
	}

	gotByIDs, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	gotByEmails, err := repo.GetByEmails(ctx, tx, []string{created[0].Email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].Email != created[0].Email {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	exists, err := repo.EmailExists(ctx, tx, created[0].Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}

	exists, err = repo.EmailExists(ctx, tx, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("EmailExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists (missing): expected false")
	}

	if err := repo.UpdateProfile(ctx, tx, created[0].ID, "Dr. Renamed", "CREFITO-123"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	updated, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs after update: %v", err)
	}
	if len(updated) != 1 || updated[0].FullName != "Dr. Renamed" || updated[0].RegistrationID != "CREFITO-123" {
		t.Fatalf("UpdateProfile: unexpected row: %+v", updated[0])
	}
}

func TestUserTokenRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserTokenRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "tokenrepo@example.com")

	created, err := repo.Create(ctx, tx, []*types.UserToken{
		{
			ID:           uuid.New(),
			ExaminerID:   examiner.ID,
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	byAccess, err := repo.GetByAccessTokens(ctx, tx, []string{"access-1"})
	if err != nil {
		t.Fatalf("GetByAccessTokens: %v", err)
	}
	if len(byAccess) != 1 || byAccess[0].ID != created[0].ID {
		t.Fatalf("GetByAccessTokens: unexpected result: %+v", byAccess)
	}

	byRefresh, err := repo.GetByRefreshTokens(ctx, tx, []string{"refresh-1"})
	if err != nil {
		t.Fatalf("GetByRefreshTokens: %v", err)
	}
	if len(byRefresh) != 1 {
		t.Fatalf("GetByRefreshTokens: expected 1 token, got %d", len(byRefresh))
	}

	if err := repo.DeleteByExaminerIDs(ctx, tx, []uuid.UUID{examiner.ID}); err != nil {
		t.Fatalf("DeleteByExaminerIDs: %v", err)
	}
	afterDelete, err := repo.GetByExaminerIDs(ctx, tx, []uuid.UUID{examiner.ID})
	if err != nil {
		t.Fatalf("GetByExaminerIDs after delete: %v", err)
	}
	if len(afterDelete) != 0 {
		t.Fatalf("expected no live tokens after delete, got %d", len(afterDelete))
	}
}
