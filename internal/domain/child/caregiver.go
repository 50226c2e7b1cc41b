package child

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Caregiver is the adult who answered the questionnaire for a child.
type Caregiver struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChildID      uuid.UUID `gorm:"type:uuid;not null;index;column:child_id" json:"child_id"`
	FullName     string    `gorm:"not null;column:full_name" json:"full_name"`
	Relationship string    `gorm:"column:relationship" json:"relationship,omitempty"`
	Phone        string    `gorm:"column:phone" json:"phone,omitempty"`
	Email        string    `gorm:"column:email" json:"email,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Caregiver) TableName() string { return "caregiver" }
