package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/audit"
	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

// ChildUpdate carries the mutable child fields; nil means keep.
type ChildUpdate struct {
	FullName  *string
	BirthDate *time.Time
	Gender    *string
	Notes     *string
}

// CaregiverUpdate carries the mutable caregiver fields; nil means keep.
type CaregiverUpdate struct {
	FullName     *string
	Relationship *string
	Phone        *string
	Email        *string
}

// ChildService manages the assessed children and their caregivers.
// Every method is scoped to the examiner in the request context; a
// child owned by someone else reads as forbidden, not as missing.
type ChildService interface {
	Create(ctx context.Context, child *types.Child, caregivers []*types.Caregiver) error
	Get(ctx context.Context, childID uuid.UUID) (*types.Child, []*types.Caregiver, error)
	List(ctx context.Context, limit, offset int) ([]*types.Child, int64, error)
	Update(ctx context.Context, childID uuid.UUID, upd ChildUpdate) (*types.Child, error)
	Delete(ctx context.Context, childID uuid.UUID) error

	AddCaregiver(ctx context.Context, childID uuid.UUID, caregiver *types.Caregiver) error
	UpdateCaregiver(ctx context.Context, childID, caregiverID uuid.UUID, upd CaregiverUpdate) (*types.Caregiver, error)
	DeleteCaregiver(ctx context.Context, childID, caregiverID uuid.UUID) error
}

type childService struct {
	db            *gorm.DB
	log           *logger.Logger
	childRepo     repos.ChildRepo
	caregiverRepo repos.CaregiverRepo
	auditService  AuditService
}

func NewChildService(
	db *gorm.DB,
	baseLog *logger.Logger,
	childRepo repos.ChildRepo,
	caregiverRepo repos.CaregiverRepo,
	auditService AuditService,
) ChildService {
	return &childService{
		db:            db,
		log:           baseLog.With("service", "ChildService"),
		childRepo:     childRepo,
		caregiverRepo: caregiverRepo,
		auditService:  auditService,
	}
}

// getOwnedChild loads the child and enforces ownership.
func (cs *childService) getOwnedChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID) (*types.Child, error) {
	found, err := cs.childRepo.GetByIDs(ctx, tx, []uuid.UUID{childID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: child %s", errs.ErrNotFound, childID)
	}
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	if found[0].ExaminerID != examinerID {
		return nil, fmt.Errorf("%w: child %s", errs.ErrForbidden, childID)
	}
	return found[0], nil
}

func (cs *childService) Create(ctx context.Context, child *types.Child, caregivers []*types.Caregiver) error {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("%w: missing child", errs.ErrInvalidArgument)
	}
	child.FullName = strings.TrimSpace(child.FullName)
	if child.FullName == "" {
		return fmt.Errorf("%w: child full name is required", errs.ErrInvalidArgument)
	}
	if child.BirthDate.IsZero() {
		return fmt.Errorf("%w: birth date is required", errs.ErrInvalidArgument)
	}
	if child.BirthDate.After(time.Now()) {
		return fmt.Errorf("%w: birth date is in the future", errs.ErrInvalidArgument)
	}
	child.ExaminerID = examinerID

	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		child.ID = uuid.New()
		if _, err := cs.childRepo.Create(ctx, tx, []*types.Child{child}); err != nil {
			return fmt.Errorf("failed to create child: %w", err)
		}
		for _, cg := range caregivers {
			if cg == nil {
				continue
			}
			cg.ID = uuid.New()
			cg.ChildID = child.ID
			cg.FullName = strings.TrimSpace(cg.FullName)
			if cg.FullName == "" {
				return fmt.Errorf("%w: caregiver full name is required", errs.ErrInvalidArgument)
			}
		}
		if len(caregivers) > 0 {
			if _, err := cs.caregiverRepo.Create(ctx, tx, caregivers); err != nil {
				return fmt.Errorf("failed to create caregivers: %w", err)
			}
		}
		_ = cs.auditService.Record(ctx, tx, examinerID, audit.ActionChildCreated, "child", child.ID, map[string]any{
			"full_name": child.FullName,
		})
		return nil
	})
}

func (cs *childService) Get(ctx context.Context, childID uuid.UUID) (*types.Child, []*types.Caregiver, error) {
	child, err := cs.getOwnedChild(ctx, nil, childID)
	if err != nil {
		return nil, nil, err
	}
	caregivers, err := cs.caregiverRepo.GetByChildIDs(ctx, nil, []uuid.UUID{childID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch caregivers: %w", err)
	}
	return child, caregivers, nil
}

func (cs *childService) List(ctx context.Context, limit, offset int) ([]*types.Child, int64, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	children, err := cs.childRepo.ListByExaminer(ctx, nil, examinerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list children: %w", err)
	}
	total, err := cs.childRepo.CountByExaminer(ctx, nil, examinerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count children: %w", err)
	}
	return children, total, nil
}

func (cs *childService) Update(ctx context.Context, childID uuid.UUID, upd ChildUpdate) (*types.Child, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: child full name cannot be empty", errs.ErrInvalidArgument)
		}
		updates["full_name"] = name
	}
	if upd.BirthDate != nil {
		if upd.BirthDate.After(time.Now()) {
			return nil, fmt.Errorf("%w: birth date is in the future", errs.ErrInvalidArgument)
		}
		updates["birth_date"] = *upd.BirthDate
	}
	if upd.Gender != nil {
		updates["gender"] = strings.TrimSpace(*upd.Gender)
	}
	if upd.Notes != nil {
		updates["notes"] = *upd.Notes
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", errs.ErrInvalidArgument)
	}

	var updated *types.Child
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.getOwnedChild(ctx, tx, childID); err != nil {
			return err
		}
		if err := cs.childRepo.UpdateFields(ctx, tx, childID, updates); err != nil {
			return fmt.Errorf("failed to update child: %w", err)
		}
		reloaded, err := cs.childRepo.GetByIDs(ctx, tx, []uuid.UUID{childID})
		if err != nil || len(reloaded) == 0 {
			return fmt.Errorf("failed to reload child: %w", err)
		}
		updated = reloaded[0]
		fields := make([]string, 0, len(updates))
		for k := range updates {
			fields = append(fields, k)
		}
		_ = cs.auditService.Record(ctx, tx, examinerID, audit.ActionChildUpdated, "child", childID, map[string]any{
			"fields": fields,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (cs *childService) Delete(ctx context.Context, childID uuid.UUID) error {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.getOwnedChild(ctx, tx, childID); err != nil {
			return err
		}
		if err := cs.caregiverRepo.SoftDeleteByChildIDs(ctx, tx, []uuid.UUID{childID}); err != nil {
			return fmt.Errorf("failed to delete caregivers: %w", err)
		}
		if err := cs.childRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{childID}); err != nil {
			return fmt.Errorf("failed to delete child: %w", err)
		}
		_ = cs.auditService.Record(ctx, tx, examinerID, audit.ActionChildDeleted, "child", childID, nil)
		return nil
	})
}

func (cs *childService) AddCaregiver(ctx context.Context, childID uuid.UUID, caregiver *types.Caregiver) error {
	if caregiver == nil {
		return fmt.Errorf("%w: missing caregiver", errs.ErrInvalidArgument)
	}
	caregiver.FullName = strings.TrimSpace(caregiver.FullName)
	if caregiver.FullName == "" {
		return fmt.Errorf("%w: caregiver full name is required", errs.ErrInvalidArgument)
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.getOwnedChild(ctx, tx, childID); err != nil {
			return err
		}
		caregiver.ID = uuid.New()
		caregiver.ChildID = childID
		if _, err := cs.caregiverRepo.Create(ctx, tx, []*types.Caregiver{caregiver}); err != nil {
			return fmt.Errorf("failed to create caregiver: %w", err)
		}
		return nil
	})
}

// getChildCaregiver loads a caregiver and confirms it belongs to the
// given child; ownership of the child is checked by the caller.
func (cs *childService) getChildCaregiver(ctx context.Context, tx *gorm.DB, childID, caregiverID uuid.UUID) (*types.Caregiver, error) {
	found, err := cs.caregiverRepo.GetByIDs(ctx, tx, []uuid.UUID{caregiverID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caregiver: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: caregiver %s", errs.ErrNotFound, caregiverID)
	}
	if found[0].ChildID != childID {
		return nil, fmt.Errorf("%w: caregiver %s does not belong to child %s", errs.ErrNotFound, caregiverID, childID)
	}
	return found[0], nil
}

func (cs *childService) UpdateCaregiver(ctx context.Context, childID, caregiverID uuid.UUID, upd CaregiverUpdate) (*types.Caregiver, error) {
	updates := map[string]any{}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: caregiver full name cannot be empty", errs.ErrInvalidArgument)
		}
		updates["full_name"] = name
	}
	if upd.Relationship != nil {
		updates["relationship"] = strings.TrimSpace(*upd.Relationship)
	}
	if upd.Phone != nil {
		updates["phone"] = strings.TrimSpace(*upd.Phone)
	}
	if upd.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", errs.ErrInvalidArgument)
	}

	var updated *types.Caregiver
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.getOwnedChild(ctx, tx, childID); err != nil {
			return err
		}
		if _, err := cs.getChildCaregiver(ctx, tx, childID, caregiverID); err != nil {
			return err
		}
		if err := cs.caregiverRepo.UpdateFields(ctx, tx, caregiverID, updates); err != nil {
			return fmt.Errorf("failed to update caregiver: %w", err)
		}
		reloaded, err := cs.caregiverRepo.GetByIDs(ctx, tx, []uuid.UUID{caregiverID})
		if err != nil || len(reloaded) == 0 {
			return fmt.Errorf("failed to reload caregiver: %w", err)
		}
		updated = reloaded[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (cs *childService) DeleteCaregiver(ctx context.Context, childID, caregiverID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.getOwnedChild(ctx, tx, childID); err != nil {
			return err
		}
		if _, err := cs.getChildCaregiver(ctx, tx, childID, caregiverID); err != nil {
			return err
		}
		if err := cs.caregiverRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{caregiverID}); err != nil {
			return fmt.Errorf("failed to delete caregiver: %w", err)
		}
		return nil
	})
}
