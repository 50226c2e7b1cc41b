package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/testutil"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
)

func TestAssessmentRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewAssessmentRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "assessrepo@example.com")
	child := testutil.SeedChild(t, ctx, tx, examiner.ID, 6)

	created, err := repo.Create(ctx, tx, []*types.Assessment{
		{
			ID:             uuid.New(),
			ChildID:        child.ID,
			ExaminerID:     examiner.ID,
			AssessmentDate: time.Now().UTC(),
			Status:         types.AssessmentStatusDraft,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 assessment, got %d", len(created))
	}

	byChild, err := repo.ListByChild(ctx, tx, child.ID)
	if err != nil {
		t.Fatalf("ListByChild: %v", err)
	}
	if len(byChild) != 1 || byChild[0].ID != created[0].ID {
		t.Fatalf("ListByChild: unexpected result: %+v", byChild)
	}

	byExaminer, err := repo.ListByExaminer(ctx, tx, examiner.ID, types.AssessmentStatusDraft, 10, 0)
	if err != nil {
		t.Fatalf("ListByExaminer: %v", err)
	}
	if len(byExaminer) != 1 {
		t.Fatalf("ListByExaminer: expected 1 assessment, got %d", len(byExaminer))
	}

	now := time.Now().UTC()
	if err := repo.UpdateFields(ctx, tx, created[0].ID, map[string]any{
		"status":      types.AssessmentStatusCompleted,
		"total_score": 258,
		"scored_at":   now,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	reloaded, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(reloaded) != 1 {
		t.Fatalf("GetByIDs: expected 1 row, got %d", len(reloaded))
	}
	if reloaded[0].Status != types.AssessmentStatusCompleted || reloaded[0].TotalScore != 258 {
		t.Fatalf("UpdateFields: unexpected row: status=%q total=%d", reloaded[0].Status, reloaded[0].TotalScore)
	}
	if reloaded[0].ScoredAt == nil {
		t.Fatalf("UpdateFields: scored_at not set")
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{created[0].ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	afterDelete, err := repo.ListByChild(ctx, tx, child.ID)
	if err != nil {
		t.Fatalf("ListByChild after delete: %v", err)
	}
	if len(afterDelete) != 0 {
		t.Fatalf("expected soft-deleted assessment hidden, got %d rows", len(afterDelete))
	}
}

func TestAssessmentRepoListScoredBatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewAssessmentRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "sweepbatch@example.com")
	child := testutil.SeedChild(t, ctx, tx, examiner.ID, 7)

	var rows []*types.Assessment
	for i := 0; i < 5; i++ {
		status := types.AssessmentStatusCompleted
		if i == 0 {
			status = types.AssessmentStatusDraft
		}
		rows = append(rows, &types.Assessment{
			ID:             uuid.New(),
			ChildID:        child.ID,
			ExaminerID:     examiner.ID,
			AssessmentDate: time.Now().UTC(),
			Status:         status,
		})
	}
	if _, err := repo.Create(ctx, tx, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var seen int
	cursor := uuid.Nil
	for {
		batch, err := repo.ListScoredBatch(ctx, tx, cursor, 2)
		if err != nil {
			t.Fatalf("ListScoredBatch: %v", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, a := range batch {
			if a.Status == types.AssessmentStatusDraft {
				t.Fatalf("draft assessment %s leaked into scored batch", a.ID)
			}
			seen++
		}
		cursor = batch[len(batch)-1].ID
	}
	if seen != 4 {
		t.Fatalf("expected 4 scored assessments across batches, got %d", seen)
	}
}

func TestResponseRepoReplaceSet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewResponseRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "responserepo@example.com")
	child := testutil.SeedChild(t, ctx, tx, examiner.ID, 5)
	assessment := testutil.SeedAssessment(t, ctx, tx, child.ID, examiner.ID)

	testutil.SeedResponses(t, ctx, tx, assessment.ID, "frequentemente")

	count, err := repo.CountByAssessmentID(ctx, tx, assessment.ID)
	if err != nil {
		t.Fatalf("CountByAssessmentID: %v", err)
	}
	if count != 86 {
		t.Fatalf("expected 86 responses, got %d", count)
	}

	if err := repo.DeleteByAssessmentIDs(ctx, tx, []uuid.UUID{assessment.ID}); err != nil {
		t.Fatalf("DeleteByAssessmentIDs: %v", err)
	}

	replacement := []*types.AssessmentResponse{
		{ID: uuid.New(), AssessmentID: assessment.ID, ItemID: 1, Response: "quase sempre"},
		{ID: uuid.New(), AssessmentID: assessment.ID, ItemID: 2, Response: "nunca"},
	}
	if _, err := repo.Create(ctx, tx, replacement); err != nil {
		t.Fatalf("Create replacement: %v", err)
	}

	rows, err := repo.GetByAssessmentIDs(ctx, tx, []uuid.UUID{assessment.ID})
	if err != nil {
		t.Fatalf("GetByAssessmentIDs: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 responses after replace, got %d", len(rows))
	}
	if rows[0].ItemID != 1 || rows[1].ItemID != 2 {
		t.Fatalf("expected item_id ordering, got %d then %d", rows[0].ItemID, rows[1].ItemID)
	}
}

func TestResponseRepoDuplicateItemRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewResponseRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "dupresponse@example.com")
	child := testutil.SeedChild(t, ctx, tx, examiner.ID, 5)
	assessment := testutil.SeedAssessment(t, ctx, tx, child.ID, examiner.ID)

	first := []*types.AssessmentResponse{
		{ID: uuid.New(), AssessmentID: assessment.ID, ItemID: 10, Response: "raramente"},
	}
	if _, err := repo.Create(ctx, tx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := []*types.AssessmentResponse{
		{ID: uuid.New(), AssessmentID: assessment.ID, ItemID: 10, Response: "quase sempre"},
	}
	if _, err := repo.Create(ctx, tx, dup); err == nil {
		t.Fatalf("expected unique index violation for duplicate item")
	}
}
