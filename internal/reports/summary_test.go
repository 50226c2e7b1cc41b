package reports

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

func fullResponses(label string) []scoring.ItemResponse {
	out := make([]scoring.ItemResponse, 0, scoring.MaxItemID)
	for id := scoring.MinItemID; id <= scoring.MaxItemID; id++ {
		out = append(out, scoring.ItemResponse{ItemID: id, Label: label})
	}
	return out
}

func TestBuildSummary(t *testing.T) {
	results := scoring.CalculateScores(fullResponses("frequentemente"))
	generatedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	s := BuildSummary(SummaryInput{
		AssessmentID:   "a2a64c9e-3c38-4a9f-9f5c-0a9a4ab0a001",
		ChildName:      "Ana Souza",
		ChildAgeYears:  7,
		AssessmentDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		GeneratedAt:    generatedAt,
		Results:        results,
	})

	if got := len(s.Sections); got != len(scoring.Sections()) {
		t.Fatalf("sections = %d, want %d", got, len(scoring.Sections()))
	}
	for i, sec := range scoring.Sections() {
		entry := s.Sections[i]
		if entry.Key != string(sec) {
			t.Errorf("sections[%d].Key = %q, want %q", i, entry.Key, sec)
		}
		wantScore := scoring.SectionItemCount(sec) * scoring.ValueFrequently
		if entry.Score != wantScore {
			t.Errorf("sections[%d].Score = %d, want %d", i, entry.Score, wantScore)
		}
		r := scoring.SectionScoreRange(sec)
		if entry.Min != r.Min || entry.Max != r.Max {
			t.Errorf("sections[%d] range = [%d,%d], want [%d,%d]", i, entry.Min, entry.Max, r.Min, r.Max)
		}
	}

	if got := len(s.Quadrants); got != len(scoring.Quadrants()) {
		t.Fatalf("quadrants = %d, want %d", got, len(scoring.Quadrants()))
	}
	for i, q := range scoring.Quadrants() {
		entry := s.Quadrants[i]
		if entry.Key != string(q) {
			t.Errorf("quadrants[%d].Key = %q, want %q", i, entry.Key, q)
		}
		// Every item answered "frequentemente" puts each quadrant at
		// 4/5 of its attainable maximum.
		if entry.Score*scoring.ValueAlmostAlways != entry.Max*scoring.ValueFrequently {
			t.Errorf("quadrants[%d] score %d out of proportion with max %d", i, entry.Score, entry.Max)
		}
		if entry.Min <= 0 || entry.Max <= entry.Min {
			t.Errorf("quadrants[%d] range [%d,%d] not increasing", i, entry.Min, entry.Max)
		}
	}

	sum := 0
	for _, e := range s.Sections {
		sum += e.Score
	}
	if s.TotalScore != sum {
		t.Errorf("TotalScore = %d, want %d", s.TotalScore, sum)
	}
	if s.TotalRange != scoring.TotalScoreRange() {
		t.Errorf("TotalRange = %+v, want %+v", s.TotalRange, scoring.TotalScoreRange())
	}
	if s.TotalItems != scoring.MaxItemID || s.ValidResponses != scoring.MaxItemID {
		t.Errorf("completeness = %d/%d, want %d/%d", s.ValidResponses, s.TotalItems, scoring.MaxItemID, scoring.MaxItemID)
	}
	if !s.GeneratedAt.Equal(generatedAt) {
		t.Errorf("GeneratedAt = %v, want %v", s.GeneratedAt, generatedAt)
	}
}

func TestBuildSummaryDefaultsGeneratedAt(t *testing.T) {
	s := BuildSummary(SummaryInput{
		AssessmentID: "x",
		Results:      scoring.CalculateScores(nil),
	})
	if s.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt not defaulted")
	}
}

func TestSummaryEncodeJSON(t *testing.T) {
	in := SummaryInput{
		AssessmentID:   "a2a64c9e-3c38-4a9f-9f5c-0a9a4ab0a001",
		ChildName:      "Ana Souza",
		ChildAgeYears:  7,
		AssessmentDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		GeneratedAt:    time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Results:        scoring.CalculateScores(fullResponses("nunca")),
		Warnings:       []string{"sectionScores.visualProcessing: score 99 outside attainable range [8, 40]"},
	}

	raw, err := BuildSummary(in).EncodeJSON()
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.AssessmentID != in.AssessmentID {
		t.Errorf("assessment_id = %q, want %q", decoded.AssessmentID, in.AssessmentID)
	}
	if len(decoded.Sections) != len(scoring.Sections()) {
		t.Errorf("sections = %d, want %d", len(decoded.Sections), len(scoring.Sections()))
	}
	if len(decoded.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(decoded.Warnings))
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatalf("unmarshal keys: %v", err)
	}
	for _, k := range []string{"assessment_id", "child_name", "child_age_years", "sections", "quadrants", "total_score", "total_range", "total_items", "valid_responses"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
}

func TestHumanizeKey(t *testing.T) {
	cases := map[string]string{
		"auditoryProcessing":       "Auditory Processing",
		"bodyPositionProcessing":   "Body Position Processing",
		"socialEmotionalResponses": "Social Emotional Responses",
		"seeking":                  "Seeking",
	}
	for in, want := range cases {
		if got := humanizeKey(in); got != want {
			t.Errorf("humanizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
