package child

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type ChildRepo interface {
	Create(ctx context.Context, tx *gorm.DB, children []*types.Child) ([]*types.Child, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) ([]*types.Child, error)
	ListByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, limit, offset int) ([]*types.Child, error)
	CountByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, childID uuid.UUID, updates map[string]any) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) error
}

type childRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChildRepo(db *gorm.DB, baseLog *logger.Logger) ChildRepo {
	repoLog := baseLog.With("repo", "ChildRepo")
	return &childRepo{db: db, log: repoLog}
}

func (cr *childRepo) Create(ctx context.Context, tx *gorm.DB, children []*types.Child) ([]*types.Child, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(children) == 0 {
		return []*types.Child{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&children).Error; err != nil {
		return nil, err
	}

	return children, nil
}

func (cr *childRepo) GetByIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) ([]*types.Child, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Child

	if len(childIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", childIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *childRepo) ListByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, limit, offset int) ([]*types.Child, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Child

	q := transaction.WithContext(ctx).
		Where("examiner_id = ?", examinerID).
		Order("created_at DESC")
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

func (cr *childRepo) CountByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Child{}).
		Where("examiner_id = ?", examinerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *childRepo) UpdateFields(ctx context.Context, tx *gorm.DB, childID uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Child{}).
		Where("id = ?", childID).
		Updates(updates).Error
}

func (cr *childRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(childIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN (?)", childIDs).
		Delete(&types.Child{}).Error; err != nil {
		return err
	}

	return nil
}
