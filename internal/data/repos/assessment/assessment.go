package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessments []*types.Assessment) ([]*types.Assessment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) ([]*types.Assessment, error)
	ListByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID) ([]*types.Assessment, error)
	ListByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, status string, limit, offset int) ([]*types.Assessment, error)
	ListScoredBatch(ctx context.Context, tx *gorm.DB, afterID uuid.UUID, limit int) ([]*types.Assessment, error)
	CountScored(ctx context.Context, tx *gorm.DB) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, updates map[string]any) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (ar *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessments []*types.Assessment) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(assessments) == 0 {
		return []*types.Assessment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

func (ar *assessmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Assessment

	if len(assessmentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", assessmentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentRepo) ListByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Assessment

	if err := transaction.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("assessment_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentRepo) ListByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, status string, limit, offset int) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Assessment

	q := transaction.WithContext(ctx).
		Where("examiner_id = ?", examinerID).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListScoredBatch pages through completed and validated assessments in
// stable id order. The sweep walks the whole table with it, passing
// the last seen id as afterID.
func (ar *assessmentRepo) ListScoredBatch(ctx context.Context, tx *gorm.DB, afterID uuid.UUID, limit int) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if limit <= 0 {
		limit = 100
	}

	var results []*types.Assessment

	q := transaction.WithContext(ctx).
		Where("status IN ?", []string{types.AssessmentStatusCompleted, types.AssessmentStatusValidated}).
		Order("id ASC").
		Limit(limit)
	if afterID != uuid.Nil {
		q = q.Where("id > ?", afterID)
	}

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountScored counts the same population ListScoredBatch walks.
func (ar *assessmentRepo) CountScored(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Assessment{}).
		Where("status IN ?", []string{types.AssessmentStatusCompleted, types.AssessmentStatusValidated}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *assessmentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&types.Assessment{}).
		Where("id = ?", assessmentID).
		Updates(updates).Error
}

func (ar *assessmentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(assessmentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN (?)", assessmentIDs).
		Delete(&types.Assessment{}).Error; err != nil {
		return err
	}

	return nil
}
