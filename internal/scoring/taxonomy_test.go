package scoring

import "testing"

func TestItemTableCoversEveryItem(t *testing.T) {
	for id := MinItemID; id <= MaxItemID; id++ {
		s, ok := SectionOf(id)
		if !ok {
			t.Fatalf("item %d has no section", id)
		}
		if s == "" {
			t.Fatalf("item %d has empty section", id)
		}
	}
}

func TestSectionItemCounts(t *testing.T) {
	raw := map[Section]int{
		SectionAuditory:        8,
		SectionVisual:          7,
		SectionTactile:         11,
		SectionMovement:        8,
		SectionBodyPosition:    8,
		SectionOralSensory:     10,
		SectionConduct:         9,
		SectionSocialEmotional: 14,
		SectionAttentional:     11,
	}
	scoring := map[Section]int{
		SectionAuditory:        8,
		SectionVisual:          6,
		SectionTactile:         11,
		SectionMovement:        8,
		SectionBodyPosition:    8,
		SectionOralSensory:     10,
		SectionConduct:         9,
		SectionSocialEmotional: 14,
		SectionAttentional:     10,
	}

	rawTotal, scoringTotal := 0, 0
	for _, s := range Sections() {
		if got := SectionRawItemCount(s); got != raw[s] {
			t.Errorf("SectionRawItemCount(%s) = %d, want %d", s, got, raw[s])
		}
		if got := SectionItemCount(s); got != scoring[s] {
			t.Errorf("SectionItemCount(%s) = %d, want %d", s, got, scoring[s])
		}
		rawTotal += SectionRawItemCount(s)
		scoringTotal += SectionItemCount(s)
	}
	if rawTotal != 86 {
		t.Errorf("raw item total = %d, want 86", rawTotal)
	}
	if scoringTotal != 84 {
		t.Errorf("scoring item total = %d, want 84", scoringTotal)
	}
}

func TestSectionRangesAreContiguous(t *testing.T) {
	// Completeness checks assume each section owns one contiguous id
	// run; a section must never reappear after another one started.
	seen := map[Section]bool{}
	var current Section
	for id := MinItemID; id <= MaxItemID; id++ {
		s, _ := SectionOf(id)
		if s == current {
			continue
		}
		if seen[s] {
			t.Fatalf("section %s restarts at item %d", s, id)
		}
		seen[s] = true
		current = s
	}
}

func TestExcludedItems(t *testing.T) {
	if !ExcludedFromSectionScore(15) {
		t.Errorf("item 15 should be excluded from section scoring")
	}
	if !ExcludedFromSectionScore(86) {
		t.Errorf("item 86 should be excluded from section scoring")
	}
	for id := MinItemID; id <= MaxItemID; id++ {
		if id == 15 || id == 86 {
			continue
		}
		if ExcludedFromSectionScore(id) {
			t.Errorf("item %d unexpectedly excluded", id)
		}
	}
}

func TestQuadrantAssignments(t *testing.T) {
	if q, ok := QuadrantOf(15); !ok || q != QuadrantSeeking {
		t.Errorf("QuadrantOf(15) = %q, %v; want seeking, true", q, ok)
	}
	// Item 86's membership is option-gated and off by default.
	if q, ok := QuadrantOf(86); ok {
		t.Errorf("QuadrantOf(86) = %q, true; want none by default", q)
	}

	counts := map[Quadrant]int{}
	unassigned := 0
	for id := MinItemID; id <= MaxItemID; id++ {
		if q, ok := QuadrantOf(id); ok {
			counts[q]++
		} else {
			unassigned++
		}
	}
	want := map[Quadrant]int{
		QuadrantSeeking:      17,
		QuadrantAvoiding:     23,
		QuadrantSensitivity:  22,
		QuadrantRegistration: 21,
	}
	for _, q := range Quadrants() {
		if counts[q] != want[q] {
			t.Errorf("quadrant %s has %d items, want %d", q, counts[q], want[q])
		}
	}
	if unassigned != 3 {
		t.Errorf("unassigned items = %d, want 3", unassigned)
	}
}

func TestValidItemID(t *testing.T) {
	for _, id := range []int{1, 43, 86} {
		if !ValidItemID(id) {
			t.Errorf("ValidItemID(%d) = false, want true", id)
		}
	}
	for _, id := range []int{0, -1, 87, 1000} {
		if ValidItemID(id) {
			t.Errorf("ValidItemID(%d) = true, want false", id)
		}
	}
}

func TestParseQuadrant(t *testing.T) {
	cases := map[string]Quadrant{
		"seeking":               QuadrantSeeking,
		"avoiding":              QuadrantAvoiding,
		"sensitivity":           QuadrantSensitivity,
		"registration":          QuadrantRegistration,
		"registrationIncreased": QuadrantRegistration,
	}
	for in, want := range cases {
		got, ok := ParseQuadrant(in)
		if !ok || got != want {
			t.Errorf("ParseQuadrant(%q) = %q, %v; want %q, true", in, got, ok, want)
		}
	}
	if _, ok := ParseQuadrant("exploration"); ok {
		t.Errorf("ParseQuadrant accepted unknown key")
	}
}

func TestParseSection(t *testing.T) {
	for _, s := range Sections() {
		got, ok := ParseSection(string(s))
		if !ok || got != s {
			t.Errorf("ParseSection(%q) = %q, %v", s, got, ok)
		}
	}
	if _, ok := ParseSection("auditory"); ok {
		t.Errorf("ParseSection accepted partial key")
	}
}
