package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

// Assessment lifecycle statuses. Draft rows are still collecting
// responses; completed rows carry persisted scores; validated rows
// passed the full consistency validation.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusValidated = "validated"
)

// Assessment is one administration of the 86-item questionnaire.
// Section and quadrant raw scores are persisted as dedicated columns
// so the consistency validator can compare them against recomputed
// values without unpacking a document.
type Assessment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChildID     uuid.UUID  `gorm:"type:uuid;not null;index;column:child_id" json:"child_id"`
	ExaminerID  uuid.UUID  `gorm:"type:uuid;not null;index;column:examiner_id" json:"examiner_id"`
	CaregiverID *uuid.UUID `gorm:"type:uuid;column:caregiver_id" json:"caregiver_id,omitempty"`

	AssessmentDate time.Time `gorm:"not null;column:assessment_date" json:"assessment_date"`
	Status         string    `gorm:"not null;default:draft;index;column:status" json:"status"`

	AuditoryScore        int `gorm:"not null;default:0;column:auditory_processing_score" json:"auditory_processing_score"`
	VisualScore          int `gorm:"not null;default:0;column:visual_processing_score" json:"visual_processing_score"`
	TactileScore         int `gorm:"not null;default:0;column:tactile_processing_score" json:"tactile_processing_score"`
	MovementScore        int `gorm:"not null;default:0;column:movement_processing_score" json:"movement_processing_score"`
	BodyPositionScore    int `gorm:"not null;default:0;column:body_position_processing_score" json:"body_position_processing_score"`
	OralSensoryScore     int `gorm:"not null;default:0;column:oral_sensory_processing_score" json:"oral_sensory_processing_score"`
	ConductScore         int `gorm:"not null;default:0;column:conduct_processing_score" json:"conduct_processing_score"`
	SocialEmotionalScore int `gorm:"not null;default:0;column:social_emotional_responses_score" json:"social_emotional_responses_score"`
	AttentionalScore     int `gorm:"not null;default:0;column:attentional_responses_score" json:"attentional_responses_score"`

	SeekingScore      int `gorm:"not null;default:0;column:seeking_score" json:"seeking_score"`
	AvoidingScore     int `gorm:"not null;default:0;column:avoiding_score" json:"avoiding_score"`
	SensitivityScore  int `gorm:"not null;default:0;column:sensitivity_score" json:"sensitivity_score"`
	RegistrationScore int `gorm:"not null;default:0;column:registration_score" json:"registration_score"`

	TotalScore int `gorm:"not null;default:0;column:total_score" json:"total_score"`

	ScoredAt    *time.Time `gorm:"column:scored_at" json:"scored_at,omitempty"`
	ValidatedAt *time.Time `gorm:"column:validated_at" json:"validated_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }

// SectionScores reads the persisted section columns back into the
// engine's map form. The assessment row is the only place the column
// <-> section pairing is spelled out.
func (a *Assessment) SectionScores() scoring.SectionScores {
	return scoring.SectionScores{
		scoring.SectionAuditory:        a.AuditoryScore,
		scoring.SectionVisual:          a.VisualScore,
		scoring.SectionTactile:         a.TactileScore,
		scoring.SectionMovement:        a.MovementScore,
		scoring.SectionBodyPosition:    a.BodyPositionScore,
		scoring.SectionOralSensory:     a.OralSensoryScore,
		scoring.SectionConduct:         a.ConductScore,
		scoring.SectionSocialEmotional: a.SocialEmotionalScore,
		scoring.SectionAttentional:     a.AttentionalScore,
	}
}

// QuadrantScores reads the persisted quadrant columns back into the
// engine's map form.
func (a *Assessment) QuadrantScores() scoring.QuadrantScores {
	return scoring.QuadrantScores{
		scoring.QuadrantSeeking:      a.SeekingScore,
		scoring.QuadrantAvoiding:     a.AvoidingScore,
		scoring.QuadrantSensitivity:  a.SensitivityScore,
		scoring.QuadrantRegistration: a.RegistrationScore,
	}
}

// ApplyResults writes freshly computed engine results into the score
// columns. Callers persist the row afterwards.
func (a *Assessment) ApplyResults(r scoring.Results) {
	a.AuditoryScore = r.SectionScores[scoring.SectionAuditory]
	a.VisualScore = r.SectionScores[scoring.SectionVisual]
	a.TactileScore = r.SectionScores[scoring.SectionTactile]
	a.MovementScore = r.SectionScores[scoring.SectionMovement]
	a.BodyPositionScore = r.SectionScores[scoring.SectionBodyPosition]
	a.OralSensoryScore = r.SectionScores[scoring.SectionOralSensory]
	a.ConductScore = r.SectionScores[scoring.SectionConduct]
	a.SocialEmotionalScore = r.SectionScores[scoring.SectionSocialEmotional]
	a.AttentionalScore = r.SectionScores[scoring.SectionAttentional]

	a.SeekingScore = r.QuadrantScores[scoring.QuadrantSeeking]
	a.AvoidingScore = r.QuadrantScores[scoring.QuadrantAvoiding]
	a.SensitivityScore = r.QuadrantScores[scoring.QuadrantSensitivity]
	a.RegistrationScore = r.QuadrantScores[scoring.QuadrantRegistration]

	a.TotalScore = r.TotalScore()
}

// ScoreColumns returns the score fields as a gorm update map, matching
// the repos' Updates-by-map convention.
func (a *Assessment) ScoreColumns() map[string]interface{} {
	return map[string]interface{}{
		"auditory_processing_score":        a.AuditoryScore,
		"visual_processing_score":          a.VisualScore,
		"tactile_processing_score":         a.TactileScore,
		"movement_processing_score":        a.MovementScore,
		"body_position_processing_score":   a.BodyPositionScore,
		"oral_sensory_processing_score":    a.OralSensoryScore,
		"conduct_processing_score":         a.ConductScore,
		"social_emotional_responses_score": a.SocialEmotionalScore,
		"attentional_responses_score":      a.AttentionalScore,
		"seeking_score":                    a.SeekingScore,
		"avoiding_score":                   a.AvoidingScore,
		"sensitivity_score":                a.SensitivityScore,
		"registration_score":               a.RegistrationScore,
		"total_score":                      a.TotalScore,
	}
}
