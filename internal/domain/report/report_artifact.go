package report

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Artifact kinds produced by the report job.
const (
	KindChartPNG    = "chart_png"
	KindSummaryJSON = "summary_json"
)

// Artifact is a generated report file stored in the bucket. ObjectKey
// is the path inside the reports prefix; the row is the source of
// truth for listing, the object itself lives in GCS.
type Artifact struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID `gorm:"type:uuid;not null;index;column:assessment_id" json:"assessment_id"`
	ExaminerID   uuid.UUID `gorm:"type:uuid;not null;index;column:examiner_id" json:"examiner_id"`
	Kind         string    `gorm:"not null;column:kind" json:"kind"`
	ObjectKey    string    `gorm:"not null;column:object_key" json:"object_key"`
	ContentType  string    `gorm:"not null;column:content_type" json:"content_type"`
	SizeBytes    int64     `gorm:"not null;default:0;column:size_bytes" json:"size_bytes"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Artifact) TableName() string { return "report_artifact" }
