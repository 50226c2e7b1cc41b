package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/testutil"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
)

func TestJobRunRepoClaimNextRunnable(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewJobRunRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "jobclaim@example.com")

	older := testutil.SeedJobRun(t, ctx, tx, examiner.ID, types.JobTypeReportGenerate, types.JobStatusQueued)
	testutil.SeedJobRun(t, ctx, tx, examiner.ID, types.JobTypeReportGenerate, types.JobStatusQueued)

	claimed, err := repo.ClaimNextRunnable(ctx, tx, 3, time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("ClaimNextRunnable: %v", err)
	}
	if claimed == nil {
		t.Fatalf("ClaimNextRunnable: expected a job, got nil")
	}
	if claimed.ID != older.ID {
		t.Fatalf("ClaimNextRunnable: expected oldest job %s, got %s", older.ID, claimed.ID)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{claimed.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("GetByIDs: expected 1 row, got %d", len(rows))
	}
	if rows[0].Status != types.JobStatusRunning {
		t.Fatalf("claimed job status = %q, want running", rows[0].Status)
	}
	if rows[0].Attempts != 1 {
		t.Fatalf("claimed job attempts = %d, want 1", rows[0].Attempts)
	}
}

func TestJobRunRepoClaimSkipsExhaustedFailures(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewJobRunRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "jobskip@example.com")

	failed := testutil.SeedJobRun(t, ctx, tx, examiner.ID, types.JobTypeReportGenerate, types.JobStatusFailed)
	if err := repo.UpdateFields(ctx, tx, failed.ID, map[string]interface{}{
		"attempts":      3,
		"last_error_at": time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(ctx, tx, 3, time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("ClaimNextRunnable: %v", err)
	}
	if claimed != nil {
		t.Fatalf("expected no claimable job, got %s", claimed.ID)
	}
}

func TestJobRunRepoUpdateFieldsUnlessStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewJobRunRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "jobguard@example.com")
	job := testutil.SeedJobRun(t, ctx, tx, examiner.ID, types.JobTypeConsistencySweep, types.JobStatusSucceeded)

	applied, err := repo.UpdateFieldsUnlessStatus(ctx, tx, job.ID, []string{types.JobStatusSucceeded, types.JobStatusFailed}, map[string]interface{}{
		"progress": 50,
	})
	if err != nil {
		t.Fatalf("UpdateFieldsUnlessStatus: %v", err)
	}
	if applied {
		t.Fatalf("expected terminal job to reject progress update")
	}
}

func TestJobRunRepoExistsRunnable(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewJobRunRepo(db, testutil.Logger(t))
	ctx := context.Background()

	examiner := testutil.SeedExaminer(t, ctx, tx, "jobexists@example.com")
	entityID := uuid.New()

	j := testutil.SeedJobRun(t, ctx, tx, examiner.ID, types.JobTypeReportGenerate, types.JobStatusQueued)
	if err := repo.UpdateFields(ctx, tx, j.ID, map[string]interface{}{
		"entity_type": "assessment",
		"entity_id":   entityID,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	exists, err := repo.ExistsRunnable(ctx, tx, examiner.ID, types.JobTypeReportGenerate, "assessment", &entityID)
	if err != nil {
		t.Fatalf("ExistsRunnable: %v", err)
	}
	if !exists {
		t.Fatalf("expected runnable job for entity")
	}

	other := uuid.New()
	exists, err = repo.ExistsRunnable(ctx, tx, examiner.ID, types.JobTypeReportGenerate, "assessment", &other)
	if err != nil {
		t.Fatalf("ExistsRunnable (other): %v", err)
	}
	if exists {
		t.Fatalf("did not expect runnable job for unrelated entity")
	}
}
