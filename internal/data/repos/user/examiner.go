package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type ExaminerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, examiners []*types.Examiner) ([]*types.Examiner, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, examinerIDs []uuid.UUID) ([]*types.Examiner, error)
	GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.Examiner, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	UpdateProfile(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, fullName, registrationID string) error
	UpdatePassword(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, passwordHash string) error
}

type examinerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExaminerRepo(db *gorm.DB, baseLog *logger.Logger) ExaminerRepo {
	repoLog := baseLog.With("repo", "ExaminerRepo")
	return &examinerRepo{db: db, log: repoLog}
}

func (er *examinerRepo) Create(ctx context.Context, tx *gorm.DB, examiners []*types.Examiner) ([]*types.Examiner, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if len(examiners) == 0 {
		return []*types.Examiner{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&examiners).Error; err != nil {
		return nil, err
	}

	return examiners, nil
}

func (er *examinerRepo) GetByIDs(ctx context.Context, tx *gorm.DB, examinerIDs []uuid.UUID) ([]*types.Examiner, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Examiner

	if len(examinerIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", examinerIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *examinerRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.Examiner, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Examiner
	if len(emails) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("email IN ?", emails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *examinerRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.Examiner{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	exists := count > 0
	return exists, nil
}

func (er *examinerRepo) UpdateProfile(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, fullName, registrationID string) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Examiner{}).
		Where("id = ?", examinerID).
		Updates(map[string]any{
			"full_name":       fullName,
			"registration_id": registrationID,
		}).Error
}

func (er *examinerRepo) UpdatePassword(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, passwordHash string) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Examiner{}).
		Where("id = ?", examinerID).
		Update("password", passwordHash).Error
}
