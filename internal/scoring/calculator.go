package scoring

import (
	"fmt"
	"time"
)

// ItemResponse is one answered questionnaire item: the printed item id
// and the caregiver's answer label exactly as captured.
type ItemResponse struct {
	ItemID int    `json:"item_id"`
	Label  string `json:"label"`
}

// SectionScores holds one score per section. Results always carry all
// nine keys, including zero-valued sections.
type SectionScores map[Section]int

// QuadrantScores holds one score per quadrant. Results always carry
// all four keys.
type QuadrantScores map[Quadrant]int

// Results is the combined outcome of scoring one assessment.
type Results struct {
	SectionScores    SectionScores  `json:"section_scores"`
	QuadrantScores   QuadrantScores `json:"quadrant_scores"`
	InvalidResponses []string       `json:"invalid_responses"`
	TotalItems       int            `json:"total_items"`
	ValidResponses   int            `json:"valid_responses"`
}

// TotalScore sums the nine section scores.
func (r Results) TotalScore() int {
	total := 0
	for _, s := range sectionOrder {
		total += r.SectionScores[s]
	}
	return total
}

type options struct {
	item86Quadrant bool
	now            func() time.Time
}

// Option adjusts engine behavior for one call.
type Option func(*options)

// WithItem86Quadrant counts item 86 toward the registration quadrant.
// Form revisions disagree on this item's membership; the default
// leaves it out of every quadrant.
func WithItem86Quadrant(enabled bool) Option {
	return func(o *options) { o.item86Quadrant = enabled }
}

// WithNow overrides the clock used by date-sensitive validation.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) quadrantOf(itemID int) (Quadrant, bool) {
	if itemID == excludedItemAttentional && o.item86Quadrant {
		return QuadrantRegistration, true
	}
	return QuadrantOf(itemID)
}

func emptySectionScores() SectionScores {
	scores := make(SectionScores, len(sectionOrder))
	for _, s := range sectionOrder {
		scores[s] = 0
	}
	return scores
}

func emptyQuadrantScores() QuadrantScores {
	scores := make(QuadrantScores, len(quadrantOrder))
	for _, q := range quadrantOrder {
		scores[q] = 0
	}
	return scores
}

// CalculateSectionScores sums answer values into their sections.
// Invalid item ids and unrecognized labels are reported, not fatal:
// the affected response is skipped and scoring continues. Items
// excluded from section scoring and "not applicable" answers are
// skipped silently. The returned map always has all nine keys.
func CalculateSectionScores(responses []ItemResponse, opts ...Option) (SectionScores, []string) {
	scores := emptySectionScores()
	var invalid []string

	for _, resp := range responses {
		if !ValidItemID(resp.ItemID) {
			invalid = append(invalid, fmt.Sprintf("Invalid item ID: %d", resp.ItemID))
			continue
		}
		if ExcludedFromSectionScore(resp.ItemID) {
			continue
		}
		value, err := MapResponseValue(resp.Label)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("Item %d: %v", resp.ItemID, err))
			continue
		}
		if value == ValueNotApplicable {
			continue
		}
		section, ok := SectionOf(resp.ItemID)
		if !ok {
			// Unreachable while itemTable covers 1..86; kept so a table
			// regression surfaces as a report instead of a silent miss.
			invalid = append(invalid, fmt.Sprintf("No section mapping for item %d", resp.ItemID))
			continue
		}
		scores[section] += value
	}

	return scores, invalid
}

// CalculateQuadrantScores sums answer values into Dunn's quadrants.
// Unlike section scoring there is no exclusion step: items 15 and 86
// count toward their quadrants when they have one. Items without a
// quadrant assignment are skipped silently.
func CalculateQuadrantScores(responses []ItemResponse, opts ...Option) (QuadrantScores, []string) {
	o := buildOptions(opts)
	scores := emptyQuadrantScores()
	var invalid []string

	for _, resp := range responses {
		if !ValidItemID(resp.ItemID) {
			invalid = append(invalid, fmt.Sprintf("Invalid item ID: %d", resp.ItemID))
			continue
		}
		value, err := MapResponseValue(resp.Label)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("Item %d: %v", resp.ItemID, err))
			continue
		}
		if value == ValueNotApplicable {
			continue
		}
		quadrant, ok := o.quadrantOf(resp.ItemID)
		if !ok {
			continue
		}
		scores[quadrant] += value
	}

	return scores, invalid
}

// CalculateScores runs section and quadrant scoring over one response
// set and merges the outcome. Invalid-response messages produced by
// both passes are deduplicated; ValidResponses counts the responses
// that produced no message.
func CalculateScores(responses []ItemResponse, opts ...Option) Results {
	sectionScores, sectionInvalid := CalculateSectionScores(responses, opts...)
	quadrantScores, quadrantInvalid := CalculateQuadrantScores(responses, opts...)

	seen := make(map[string]bool)
	invalid := make([]string, 0)
	for _, msg := range append(sectionInvalid, quadrantInvalid...) {
		if seen[msg] {
			continue
		}
		seen[msg] = true
		invalid = append(invalid, msg)
	}

	return Results{
		SectionScores:    sectionScores,
		QuadrantScores:   quadrantScores,
		InvalidResponses: invalid,
		TotalItems:       len(responses),
		ValidResponses:   len(responses) - len(invalid),
	}
}
