package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/ctxutil"
	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

// requestExaminerID pulls the authenticated examiner from the request
// context. Services call this at the top of every owner-scoped method.
func requestExaminerID(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.ExaminerID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: not authenticated", errs.ErrUnauthorized)
	}
	return rd.ExaminerID, nil
}

type ExaminerService interface {
	GetMe(ctx context.Context) (*types.Examiner, error)
	UpdateProfile(ctx context.Context, fullName, registrationID string) (*types.Examiner, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

type examinerService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ExaminerRepo
}

func NewExaminerService(db *gorm.DB, baseLog *logger.Logger, repo repos.ExaminerRepo) ExaminerService {
	return &examinerService{
		db:   db,
		log:  baseLog.With("service", "ExaminerService"),
		repo: repo,
	}
}

func (es *examinerService) GetMe(ctx context.Context) (*types.Examiner, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	found, err := es.repo.GetByIDs(ctx, nil, []uuid.UUID{examinerID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch examiner: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: examiner", errs.ErrNotFound)
	}
	return found[0], nil
}

func (es *examinerService) UpdateProfile(ctx context.Context, fullName, registrationID string) (*types.Examiner, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	registrationID = strings.TrimSpace(registrationID)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", errs.ErrInvalidArgument)
	}

	var updated *types.Examiner
	err = es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := es.repo.UpdateProfile(ctx, tx, examinerID, fullName, registrationID); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		found, err := es.repo.GetByIDs(ctx, tx, []uuid.UUID{examinerID})
		if err != nil {
			return fmt.Errorf("failed to reload examiner: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("%w: examiner", errs.ErrNotFound)
		}
		updated = found[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (es *examinerService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return err
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", errs.ErrInvalidArgument)
	}
	found, err := es.repo.GetByIDs(ctx, nil, []uuid.UUID{examinerID})
	if err != nil {
		return fmt.Errorf("failed to fetch examiner: %w", err)
	}
	if len(found) == 0 {
		return fmt.Errorf("%w: examiner", errs.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found[0].Password), []byte(currentPassword)); err != nil {
		return fmt.Errorf("%w: current password does not match", errs.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := es.repo.UpdatePassword(ctx, nil, examinerID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
