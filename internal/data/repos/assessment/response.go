package assessment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type ResponseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, responses []*types.AssessmentResponse) ([]*types.AssessmentResponse, error)
	GetByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) ([]*types.AssessmentResponse, error)
	DeleteByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error
	CountByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (int64, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	repoLog := baseLog.With("repo", "ResponseRepo")
	return &responseRepo{db: db, log: repoLog}
}

func (rr *responseRepo) Create(ctx context.Context, tx *gorm.DB, responses []*types.AssessmentResponse) ([]*types.AssessmentResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(responses) == 0 {
		return []*types.AssessmentResponse{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&responses).Error; err != nil {
		return nil, err
	}

	return responses, nil
}

func (rr *responseRepo) GetByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) ([]*types.AssessmentResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.AssessmentResponse

	if len(assessmentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id IN ?", assessmentIDs).
		Order("item_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteByAssessmentIDs hard-deletes; responses have no soft-delete
// column because a replaced answer set has no audit value of its own.
func (rr *responseRepo) DeleteByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(assessmentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id IN (?)", assessmentIDs).
		Delete(&types.AssessmentResponse{}).Error; err != nil {
		return err
	}

	return nil
}

func (rr *responseRepo) CountByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AssessmentResponse{}).
		Where("assessment_id = ?", assessmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
