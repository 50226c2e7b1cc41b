package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

// AuditService appends audit trail entries. Recording is best-effort
// from the caller's point of view: a failed write is logged and
// returned but must not abort the business transaction, so services
// call it last inside their transactions.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, action, entityType string, entityID uuid.UUID, details map[string]any) error
	ListForEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, limit, offset int) ([]*types.AuditLog, error)
}

type auditService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.AuditLogRepo
}

func NewAuditService(db *gorm.DB, baseLog *logger.Logger, repo repos.AuditLogRepo) AuditService {
	return &auditService{
		db:   db,
		log:  baseLog.With("service", "AuditService"),
		repo: repo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, examinerID uuid.UUID, action, entityType string, entityID uuid.UUID, details map[string]any) error {
	if examinerID == uuid.Nil || action == "" {
		return nil
	}
	var detailsJSON datatypes.JSON
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			s.log.Warn("Failed to marshal audit details", "action", action, "error", err)
			b = []byte(`{}`)
		}
		detailsJSON = datatypes.JSON(b)
	} else {
		detailsJSON = datatypes.JSON([]byte(`{}`))
	}
	entry := &types.AuditLog{
		ID:         uuid.New(),
		ExaminerID: examinerID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    detailsJSON,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, tx, []*types.AuditLog{entry}); err != nil {
		s.log.Warn("Failed to record audit entry", "action", action, "entity_type", entityType, "error", err)
		return err
	}
	return nil
}

func (s *auditService) ListForEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, limit, offset int) ([]*types.AuditLog, error) {
	return s.repo.ListByEntity(ctx, tx, entityType, entityID, limit, offset)
}
