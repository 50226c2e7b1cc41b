package child

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/testutil"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
)

func TestChildRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewChildRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "childrepo@example.com")

	created, err := repo.Create(ctx, tx, []*types.Child{
		{
			ID:         uuid.New(),
			ExaminerID: examiner.ID,
			FullName:   "Ana",
			BirthDate:  time.Date(2019, 3, 10, 0, 0, 0, 0, time.UTC),
			Gender:     "F",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 child, got %d", len(created))
	}

	listed, err := repo.ListByExaminer(ctx, tx, examiner.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByExaminer: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created[0].ID {
		t.Fatalf("ListByExaminer: unexpected result: %+v", listed)
	}

	count, err := repo.CountByExaminer(ctx, tx, examiner.ID)
	if err != nil {
		t.Fatalf("CountByExaminer: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountByExaminer: expected 1, got %d", count)
	}

	if err := repo.UpdateFields(ctx, tx, created[0].ID, map[string]any{
		"full_name": "Ana Clara",
		"notes":     "prefers quiet rooms",
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	reloaded, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(reloaded) != 1 || reloaded[0].FullName != "Ana Clara" {
		t.Fatalf("UpdateFields: unexpected row: %+v", reloaded)
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{created[0].ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	afterDelete, err := repo.ListByExaminer(ctx, tx, examiner.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByExaminer after delete: %v", err)
	}
	if len(afterDelete) != 0 {
		t.Fatalf("expected soft-deleted child hidden, got %d rows", len(afterDelete))
	}
}

func TestCaregiverRepoByChild(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCaregiverRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "caregiverrepo@example.com")
	child := testutil.SeedChild(t, ctx, tx, examiner.ID, 4)

	created, err := repo.Create(ctx, tx, []*types.Caregiver{
		{ID: uuid.New(), ChildID: child.ID, FullName: "Maria", Relationship: "mother"},
		{ID: uuid.New(), ChildID: child.ID, FullName: "Jose", Relationship: "father"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Create: expected 2 caregivers, got %d", len(created))
	}

	byChild, err := repo.GetByChildIDs(ctx, tx, []uuid.UUID{child.ID})
	if err != nil {
		t.Fatalf("GetByChildIDs: %v", err)
	}
	if len(byChild) != 2 {
		t.Fatalf("GetByChildIDs: expected 2 caregivers, got %d", len(byChild))
	}

	if err := repo.SoftDeleteByChildIDs(ctx, tx, []uuid.UUID{child.ID}); err != nil {
		t.Fatalf("SoftDeleteByChildIDs: %v", err)
	}
	afterDelete, err := repo.GetByChildIDs(ctx, tx, []uuid.UUID{child.ID})
	if err != nil {
		t.Fatalf("GetByChildIDs after delete: %v", err)
	}
	if len(afterDelete) != 0 {
		t.Fatalf("expected caregivers hidden after delete, got %d", len(afterDelete))
	}
}
