package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

func SeedExaminer(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Examiner {
	tb.Helper()
	e := &types.Examiner{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		FullName: "Test Examiner",
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed examiner: %v", err)
	}
	return e
}

func SeedChild(tb testing.TB, ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, ageYears int) *types.Child {
	tb.Helper()
	c := &types.Child{
		ID:         uuid.New(),
		ExaminerID: examinerID,
		FullName:   "Test Child",
		BirthDate:  time.Now().UTC().AddDate(-ageYears, 0, -30),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed child: %v", err)
	}
	return c
}

func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, childID, examinerID uuid.UUID) *types.Assessment {
	tb.Helper()
	a := &types.Assessment{
		ID:             uuid.New(),
		ChildID:        childID,
		ExaminerID:     examinerID,
		AssessmentDate: time.Now().UTC(),
		Status:         types.AssessmentStatusDraft,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	return a
}

// SeedResponses answers every item 1..86 with the same label, enough
// for scoring round trips without hand-building 86 rows per test.
func SeedResponses(tb testing.TB, ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, label string) []*types.AssessmentResponse {
	tb.Helper()
	rows := make([]*types.AssessmentResponse, 0, scoring.MaxItemID)
	for item := scoring.MinItemID; item <= scoring.MaxItemID; item++ {
		rows = append(rows, &types.AssessmentResponse{
			ID:           uuid.New(),
			AssessmentID: assessmentID,
			ItemID:       item,
			Response:     label,
		})
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		tb.Fatalf("seed responses: %v", err)
	}
	return rows
}

func SeedJobRun(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerExaminerID uuid.UUID, jobType, status string) *types.JobRun {
	tb.Helper()
	j := &types.JobRun{
		ID:              uuid.New(),
		OwnerExaminerID: ownerExaminerID,
		JobType:         jobType,
		Status:          status,
		Stage:           "queued",
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job run: %v", err)
	}
	return j
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
