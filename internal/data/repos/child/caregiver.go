package child

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type CaregiverRepo interface {
	Create(ctx context.Context, tx *gorm.DB, caregivers []*types.Caregiver) ([]*types.Caregiver, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, caregiverIDs []uuid.UUID) ([]*types.Caregiver, error)
	GetByChildIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) ([]*types.Caregiver, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, caregiverID uuid.UUID, updates map[string]any) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, caregiverIDs []uuid.UUID) error
	SoftDeleteByChildIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) error
}

type caregiverRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaregiverRepo(db *gorm.DB, baseLog *logger.Logger) CaregiverRepo {
	repoLog := baseLog.With("repo", "CaregiverRepo")
	return &caregiverRepo{db: db, log: repoLog}
}

func (cr *caregiverRepo) Create(ctx context.Context, tx *gorm.DB, caregivers []*types.Caregiver) ([]*types.Caregiver, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(caregivers) == 0 {
		return []*types.Caregiver{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&caregivers).Error; err != nil {
		return nil, err
	}

	return caregivers, nil
}

func (cr *caregiverRepo) GetByIDs(ctx context.Context, tx *gorm.DB, caregiverIDs []uuid.UUID) ([]*types.Caregiver, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Caregiver

	if len(caregiverIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", caregiverIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *caregiverRepo) GetByChildIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) ([]*types.Caregiver, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Caregiver

	if len(childIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("child_id IN ?", childIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *caregiverRepo) UpdateFields(ctx context.Context, tx *gorm.DB, caregiverID uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Caregiver{}).
		Where("id = ?", caregiverID).
		Updates(updates).Error
}

func (cr *caregiverRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, caregiverIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(caregiverIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN (?)", caregiverIDs).
		Delete(&types.Caregiver{}).Error; err != nil {
		return err
	}

	return nil
}

func (cr *caregiverRepo) SoftDeleteByChildIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(childIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("child_id IN (?)", childIDs).
		Delete(&types.Caregiver{}).Error; err != nil {
		return err
	}

	return nil
}
