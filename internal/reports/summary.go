package reports

import (
	"encoding/json"
	"time"

	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

// Summary is the machine-readable report artifact. It carries the
// scores alongside their attainable ranges so consumers never need the
// scoring tables to interpret a number.
type Summary struct {
	AssessmentID   string             `json:"assessment_id"`
	ChildName      string             `json:"child_name"`
	ChildAgeYears  int                `json:"child_age_years"`
	AssessmentDate time.Time          `json:"assessment_date"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Sections       []ScoreEntry       `json:"sections"`
	Quadrants      []ScoreEntry       `json:"quadrants"`
	TotalScore     int                `json:"total_score"`
	TotalRange     scoring.ScoreRange `json:"total_range"`
	TotalItems     int                `json:"total_items"`
	ValidResponses int                `json:"valid_responses"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// ScoreEntry is one named score with its attainable range.
type ScoreEntry struct {
	Key   string `json:"key"`
	Score int    `json:"score"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// SummaryInput collects everything BuildSummary needs; callers map
// their storage rows into it.
type SummaryInput struct {
	AssessmentID   string
	ChildName      string
	ChildAgeYears  int
	AssessmentDate time.Time
	GeneratedAt    time.Time
	Results        scoring.Results
	Warnings       []string
}

// BuildSummary lays the engine results out in canonical section and
// quadrant order.
func BuildSummary(in SummaryInput) Summary {
	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	sections := make([]ScoreEntry, 0, len(scoring.Sections()))
	for _, s := range scoring.Sections() {
		r := scoring.SectionScoreRange(s)
		sections = append(sections, ScoreEntry{
			Key:   string(s),
			Score: in.Results.SectionScores[s],
			Min:   r.Min,
			Max:   r.Max,
		})
	}

	quadrants := make([]ScoreEntry, 0, len(scoring.Quadrants()))
	for _, q := range scoring.Quadrants() {
		r := quadrantScoreRange(q)
		quadrants = append(quadrants, ScoreEntry{
			Key:   string(q),
			Score: in.Results.QuadrantScores[q],
			Min:   r.Min,
			Max:   r.Max,
		})
	}

	return Summary{
		AssessmentID:   in.AssessmentID,
		ChildName:      in.ChildName,
		ChildAgeYears:  in.ChildAgeYears,
		AssessmentDate: in.AssessmentDate,
		GeneratedAt:    generatedAt,
		Sections:       sections,
		Quadrants:      quadrants,
		TotalScore:     in.Results.TotalScore(),
		TotalRange:     scoring.TotalScoreRange(),
		TotalItems:     in.Results.TotalItems,
		ValidResponses: in.Results.ValidResponses,
		Warnings:       in.Warnings,
	}
}

// EncodeJSON renders the summary artifact body.
func (s Summary) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// quadrantScoreRange mirrors scoring.SectionScoreRange for quadrants;
// the base mapping (item 86 excluded) bounds the chart scale.
func quadrantScoreRange(q scoring.Quadrant) scoring.ScoreRange {
	n := 0
	for id := scoring.MinItemID; id <= scoring.MaxItemID; id++ {
		if mapped, ok := scoring.QuadrantOf(id); ok && mapped == q {
			n++
		}
	}
	return scoring.ScoreRange{Min: n * scoring.ValueNever, Max: n * scoring.ValueAlmostAlways}
}
