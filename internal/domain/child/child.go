package child

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Child is the assessed subject. BirthDate drives the age-band
// consistency checks, so it is mandatory at creation.
type Child struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExaminerID uuid.UUID `gorm:"type:uuid;not null;index;column:examiner_id" json:"examiner_id"`
	FullName   string    `gorm:"not null;column:full_name" json:"full_name"`
	BirthDate  time.Time `gorm:"not null;column:birth_date" json:"birth_date"`
	Gender     string    `gorm:"column:gender" json:"gender,omitempty"`
	Notes      string    `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Child) TableName() string { return "child" }
