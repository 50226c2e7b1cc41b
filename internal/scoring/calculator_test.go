package scoring

import (
	"fmt"
	"strings"
	"testing"
)

// fullResponseSet answers all 86 items with the same label.
func fullResponseSet(label string) []ItemResponse {
	out := make([]ItemResponse, 0, MaxItemID)
	for id := MinItemID; id <= MaxItemID; id++ {
		out = append(out, ItemResponse{ItemID: id, Label: label})
	}
	return out
}

func TestCalculateSectionScoresFullForm(t *testing.T) {
	scores, invalid := CalculateSectionScores(fullResponseSet("frequentemente"))
	if len(invalid) != 0 {
		t.Fatalf("unexpected invalid responses: %v", invalid)
	}

	want := map[Section]int{
		SectionAuditory:        32,
		SectionVisual:          24, // item 15 excluded
		SectionTactile:         44,
		SectionMovement:        32,
		SectionBodyPosition:    32,
		SectionOralSensory:     40,
		SectionConduct:         36,
		SectionSocialEmotional: 56,
		SectionAttentional:     40, // item 86 excluded
	}
	if len(scores) != 9 {
		t.Fatalf("section score keys = %d, want 9", len(scores))
	}
	for s, w := range want {
		if scores[s] != w {
			t.Errorf("section %s = %d, want %d", s, scores[s], w)
		}
	}
}

func TestCalculateSectionScoresAlwaysReturnsAllKeys(t *testing.T) {
	scores, _ := CalculateSectionScores(nil)
	if len(scores) != 9 {
		t.Fatalf("section score keys = %d, want 9", len(scores))
	}
	for _, s := range Sections() {
		v, ok := scores[s]
		if !ok {
			t.Errorf("missing section key %s", s)
		}
		if v != 0 {
			t.Errorf("empty input produced score %d for %s", v, s)
		}
	}
}

func TestCalculateSectionScoresSkipsByRule(t *testing.T) {
	responses := []ItemResponse{
		{ItemID: 1, Label: "quase sempre"},  // counts: auditory +5
		{ItemID: 15, Label: "quase sempre"}, // excluded item, silent
		{ItemID: 86, Label: "quase sempre"}, // excluded item, silent
		{ItemID: 2, Label: "não se aplica"}, // zero value, silent
	}
	scores, invalid := CalculateSectionScores(responses)
	if len(invalid) != 0 {
		t.Fatalf("unexpected invalid responses: %v", invalid)
	}
	if scores[SectionAuditory] != 5 {
		t.Errorf("auditory = %d, want 5", scores[SectionAuditory])
	}
	if scores[SectionVisual] != 0 {
		t.Errorf("visual = %d, want 0 (item 15 excluded)", scores[SectionVisual])
	}
	if scores[SectionAttentional] != 0 {
		t.Errorf("attentional = %d, want 0 (item 86 excluded)", scores[SectionAttentional])
	}
}

func TestCalculateSectionScoresRecordsInvalidInput(t *testing.T) {
	responses := []ItemResponse{
		{ItemID: 0, Label: "nunca"},
		{ItemID: 87, Label: "nunca"},
		{ItemID: 3, Label: "sometimes"},
		{ItemID: 4, Label: "raramente"},
	}
	scores, invalid := CalculateSectionScores(responses)

	if scores[SectionAuditory] != 2 {
		t.Errorf("auditory = %d, want 2", scores[SectionAuditory])
	}
	if len(invalid) != 3 {
		t.Fatalf("invalid count = %d, want 3: %v", len(invalid), invalid)
	}
	if invalid[0] != "Invalid item ID: 0" {
		t.Errorf("invalid[0] = %q", invalid[0])
	}
	if invalid[1] != "Invalid item ID: 87" {
		t.Errorf("invalid[1] = %q", invalid[1])
	}
	if want := fmt.Sprintf("Item 3: invalid response value: %q", "sometimes"); invalid[2] != want {
		t.Errorf("invalid[2] = %q, want %q", invalid[2], want)
	}
}

func TestCalculateQuadrantScoresFullForm(t *testing.T) {
	scores, invalid := CalculateQuadrantScores(fullResponseSet("frequentemente"))
	if len(invalid) != 0 {
		t.Fatalf("unexpected invalid responses: %v", invalid)
	}
	want := map[Quadrant]int{
		QuadrantSeeking:      68, // 17 items, includes item 15
		QuadrantAvoiding:     92,
		QuadrantSensitivity:  88,
		QuadrantRegistration: 84, // item 86 not counted by default
	}
	if len(scores) != 4 {
		t.Fatalf("quadrant score keys = %d, want 4", len(scores))
	}
	for q, w := range want {
		if scores[q] != w {
			t.Errorf("quadrant %s = %d, want %d", q, scores[q], w)
		}
	}
}

func TestCalculateQuadrantScoresItem86Option(t *testing.T) {
	responses := []ItemResponse{{ItemID: 86, Label: "quase sempre"}}

	defaultScores, _ := CalculateQuadrantScores(responses)
	if defaultScores[QuadrantRegistration] != 0 {
		t.Errorf("registration = %d without option, want 0", defaultScores[QuadrantRegistration])
	}

	optScores, _ := CalculateQuadrantScores(responses, WithItem86Quadrant(true))
	if optScores[QuadrantRegistration] != 5 {
		t.Errorf("registration = %d with option, want 5", optScores[QuadrantRegistration])
	}
}

func TestCalculateQuadrantScoresCountsExcludedSectionItems(t *testing.T) {
	// Item 15 is out of section scoring but carries a quadrant.
	scores, _ := CalculateQuadrantScores([]ItemResponse{{ItemID: 15, Label: "frequentemente"}})
	if scores[QuadrantSeeking] != 4 {
		t.Errorf("seeking = %d, want 4", scores[QuadrantSeeking])
	}
}

func TestCalculateScores(t *testing.T) {
	responses := fullResponseSet("frequentemente")
	responses = append(responses,
		ItemResponse{ItemID: 99, Label: "nunca"},
		ItemResponse{ItemID: 12, Label: "bogus"},
	)

	results := CalculateScores(responses)

	if results.TotalItems != 88 {
		t.Errorf("TotalItems = %d, want 88", results.TotalItems)
	}
	// Both calculators report the same two problems; the union dedupes.
	if len(results.InvalidResponses) != 2 {
		t.Fatalf("InvalidResponses = %v, want 2 entries", results.InvalidResponses)
	}
	if results.ValidResponses != 86 {
		t.Errorf("ValidResponses = %d, want 86", results.ValidResponses)
	}
	if results.TotalScore() != 336 {
		t.Errorf("TotalScore = %d, want 336", results.TotalScore())
	}
	for _, msg := range results.InvalidResponses {
		if !strings.Contains(msg, "99") && !strings.Contains(msg, "Item 12") {
			t.Errorf("unexpected invalid message %q", msg)
		}
	}
}

func TestCalculateScoresEmptyInput(t *testing.T) {
	results := CalculateScores(nil)
	if results.TotalItems != 0 || results.ValidResponses != 0 {
		t.Errorf("totals = (%d, %d), want (0, 0)", results.TotalItems, results.ValidResponses)
	}
	if len(results.SectionScores) != 9 || len(results.QuadrantScores) != 4 {
		t.Errorf("score keys = (%d, %d), want (9, 4)",
			len(results.SectionScores), len(results.QuadrantScores))
	}
	if len(results.InvalidResponses) != 0 {
		t.Errorf("InvalidResponses = %v, want empty", results.InvalidResponses)
	}
}
