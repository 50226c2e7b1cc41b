package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity + auth
		// =========================
		&types.Examiner{},
		&types.UserToken{},

		// =========================
		// Children + caregivers
		// =========================
		&types.Child{},
		&types.Caregiver{},

		// =========================
		// Assessments
		// =========================
		&types.Assessment{},
		&types.AssessmentResponse{},

		// =========================
		// Reports
		// =========================
		&types.ReportArtifact{},

		// =========================
		// Jobs / worker
		// =========================
		&types.JobRun{},

		// =========================
		// Audit trail
		// =========================
		&types.AuditLog{},
	)
}

func EnsureIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}
	// examiner: email must stay unique among live rows only, so soft
	// deletes free the address for re-registration.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_examiner_email_active
		ON examiner(email)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_examiner_email_active: %w", err)
	}
	// user_token cleanup scans by expiry.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_token_expires_at ON user_token(expires_at);`).Error; err != nil {
		return fmt.Errorf("create idx_user_token_expires_at: %w", err)
	}
	// Assessment listings per child and per examiner.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_assessment_child_date
		ON assessment (child_id, assessment_date DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_assessment_child_date: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_assessment_examiner_status
		ON assessment (examiner_id, status, created_at DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_assessment_examiner_status: %w", err)
	}
	// Worker claim scan: queued rows in FIFO order.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_job_run_claim
		ON job_run (status, created_at)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_job_run_claim: %w", err)
	}
	// Audit lookups by entity.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_log_entity
		ON audit_log (entity_type, entity_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_audit_log_entity: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}

	return nil
}
