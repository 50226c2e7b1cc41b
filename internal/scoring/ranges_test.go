package scoring

import (
	"strings"
	"testing"
)

func TestSectionScoreRange(t *testing.T) {
	r := SectionScoreRange(SectionAuditory)
	if r.Min != 8 || r.Max != 40 {
		t.Errorf("auditory range = [%d, %d], want [8, 40]", r.Min, r.Max)
	}
	r = SectionScoreRange(SectionVisual)
	if r.Min != 6 || r.Max != 30 {
		t.Errorf("visual range = [%d, %d], want [6, 30] (item 15 excluded)", r.Min, r.Max)
	}
	r = SectionScoreRange(SectionAttentional)
	if r.Min != 10 || r.Max != 50 {
		t.Errorf("attentional range = [%d, %d], want [10, 50] (item 86 excluded)", r.Min, r.Max)
	}
}

func TestTotalScoreRange(t *testing.T) {
	r := TotalScoreRange()
	if r.Min != 84 || r.Max != 420 {
		t.Errorf("total range = [%d, %d], want [84, 420]", r.Min, r.Max)
	}
}

func TestValidateScoreRangesCleanResults(t *testing.T) {
	results := CalculateScores(fullResponseSet("ocasionalmente"))
	if warnings := ValidateScoreRanges(results); len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidateScoreRangesFlagsOutOfRange(t *testing.T) {
	results := CalculateScores(fullResponseSet("nunca"))
	results.SectionScores[SectionAuditory] = 41 // above 8*5

	warnings := ValidateScoreRanges(results)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want 1 entry", warnings)
	}
	if !strings.Contains(warnings[0], "auditoryProcessing") || !strings.Contains(warnings[0], "[8, 40]") {
		t.Errorf("warning = %q", warnings[0])
	}
}

func TestValidateScoreRangesFlagsTotal(t *testing.T) {
	// A zeroed result sheet is below every minimum: nine section
	// warnings plus the total warning.
	results := Results{SectionScores: emptySectionScores()}
	warnings := ValidateScoreRanges(results)
	if len(warnings) != 10 {
		t.Fatalf("warnings = %d, want 10: %v", len(warnings), warnings)
	}
	last := warnings[len(warnings)-1]
	if !strings.Contains(last, "Total score 0") || !strings.Contains(last, "[84, 420]") {
		t.Errorf("total warning = %q", last)
	}
}
