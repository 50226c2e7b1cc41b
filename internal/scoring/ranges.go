package scoring

import "fmt"

// ScoreRange bounds a score between Min and Max inclusive.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r ScoreRange) contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// SectionScoreRange returns the attainable score range for a section:
// every scoring item answered "never" up to every item answered
// "quase sempre".
func SectionScoreRange(s Section) ScoreRange {
	n := SectionItemCount(s)
	return ScoreRange{Min: n * ValueNever, Max: n * ValueAlmostAlways}
}

// TotalScoreRange returns the attainable range for the summed section
// scores across the whole form.
func TotalScoreRange() ScoreRange {
	total := ScoreRange{}
	for _, s := range sectionOrder {
		r := SectionScoreRange(s)
		total.Min += r.Min
		total.Max += r.Max
	}
	return total
}

// ValidateScoreRanges reports section or total scores that fall
// outside their attainable ranges. Out-of-range scores are data-entry
// or migration artifacts, not rule violations, so findings come back
// as warnings and never fail an assessment.
func ValidateScoreRanges(results Results) []string {
	var warnings []string

	for _, s := range sectionOrder {
		r := SectionScoreRange(s)
		score := results.SectionScores[s]
		if !r.contains(score) {
			warnings = append(warnings, fmt.Sprintf(
				"Section %s score %d outside expected range [%d, %d]", s, score, r.Min, r.Max))
		}
	}

	total := results.TotalScore()
	tr := TotalScoreRange()
	if !tr.contains(total) {
		warnings = append(warnings, fmt.Sprintf(
			"Total score %d outside expected range [%d, %d]", total, tr.Min, tr.Max))
	}

	return warnings
}
