package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit actions recorded by the service layer. Kept as plain strings
// in the table so new actions never need a migration.
const (
	ActionAssessmentCreated   = "assessment.created"
	ActionAssessmentUpdated   = "assessment.updated"
	ActionAssessmentScored    = "assessment.scored"
	ActionAssessmentValidated = "assessment.validated"
	ActionAssessmentDeleted   = "assessment.deleted"
	ActionChildCreated        = "child.created"
	ActionChildUpdated        = "child.updated"
	ActionChildDeleted        = "child.deleted"
	ActionReportRequested     = "report.requested"
	ActionExaminerRegistered  = "examiner.registered"
	ActionExaminerLogin       = "examiner.login"
)

// Log is an append-only audit record. Details holds action-specific
// context (score totals, changed fields) as jsonb.
type Log struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExaminerID uuid.UUID      `gorm:"type:uuid;not null;index;column:examiner_id" json:"examiner_id"`
	EntityType string         `gorm:"not null;column:entity_type" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null;index;column:entity_id" json:"entity_id"`
	Action     string         `gorm:"not null;index;column:action" json:"action"`
	Details    datatypes.JSON `gorm:"type:jsonb;column:details" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Log) TableName() string { return "audit_log" }
