package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type AuditLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.AuditLog) ([]*types.AuditLog, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, limit, offset int) ([]*types.AuditLog, error)
	ListByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, limit, offset int) ([]*types.AuditLog, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	repoLog := baseLog.With("repo", "AuditLogRepo")
	return &auditLogRepo{db: db, log: repoLog}
}

func (alr *auditLogRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.AuditLog) ([]*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = alr.db
	}

	if len(entries) == 0 {
		return []*types.AuditLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (alr *auditLogRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, limit, offset int) ([]*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = alr.db
	}

	var results []*types.AuditLog

	q := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
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

func (alr *auditLogRepo) ListByExaminer(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, limit, offset int) ([]*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = alr.db
	}

	var results []*types.AuditLog

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
