package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Response is one answered questionnaire item. The composite unique
// index keeps at most one answer per item per assessment; replacing
// answers goes through delete-then-insert inside a transaction.
type Response struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assessment_item;column:assessment_id" json:"assessment_id"`
	ItemID       int       `gorm:"not null;uniqueIndex:idx_assessment_item;column:item_id" json:"item_id"`
	Response     string    `gorm:"not null;column:response" json:"response"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Response) TableName() string { return "assessment_response" }
