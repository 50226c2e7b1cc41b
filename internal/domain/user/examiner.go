package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Examiner is the professional account that owns children, assessments
// and reports. RegistrationID holds the professional council number
// (CREFITO or equivalent) shown on printed reports.
type Examiner struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password       string    `gorm:"not null;column:password" json:"-"`
	FullName       string    `gorm:"not null;column:full_name" json:"full_name"`
	RegistrationID string    `gorm:"column:registration_id" json:"registration_id"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Examiner) TableName() string { return "examiner" }
