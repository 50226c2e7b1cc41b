package report

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type ReportArtifactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, artifacts []*types.ReportArtifact) ([]*types.ReportArtifact, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) ([]*types.ReportArtifact, error)
	GetByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) ([]*types.ReportArtifact, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) error
	SoftDeleteByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error
}

type reportArtifactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportArtifactRepo(db *gorm.DB, baseLog *logger.Logger) ReportArtifactRepo {
	repoLog := baseLog.With("repo", "ReportArtifactRepo")
	return &reportArtifactRepo{db: db, log: repoLog}
}

func (rar *reportArtifactRepo) Create(ctx context.Context, tx *gorm.DB, artifacts []*types.ReportArtifact) ([]*types.ReportArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = rar.db
	}

	if len(artifacts) == 0 {
		return []*types.ReportArtifact{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&artifacts).Error; err != nil {
		return nil, err
	}

	return artifacts, nil
}

func (rar *reportArtifactRepo) GetByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) ([]*types.ReportArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = rar.db
	}

	var results []*types.ReportArtifact

	if len(artifactIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", artifactIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rar *reportArtifactRepo) GetByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) ([]*types.ReportArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = rar.db
	}

	var results []*types.ReportArtifact

	if len(assessmentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id IN ?", assessmentIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rar *reportArtifactRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rar.db
	}

	if len(artifactIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN (?)", artifactIDs).
		Delete(&types.ReportArtifact{}).Error; err != nil {
		return err
	}

	return nil
}

func (rar *reportArtifactRepo) SoftDeleteByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rar.db
	}

	if len(assessmentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id IN (?)", assessmentIDs).
		Delete(&types.ReportArtifact{}).Error; err != nil {
		return err
	}

	return nil
}
