package scoring

import (
	"strings"
	"testing"
	"time"
)

func fixedNow(t *testing.T) (time.Time, Option) {
	t.Helper()
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	return now, WithNow(func() time.Time { return now })
}

func TestValidateScoreConsistencyMatch(t *testing.T) {
	responses := fullResponseSet("frequentemente")
	persisted, _ := CalculateSectionScores(responses)

	result := ValidateScoreConsistency(responses, persisted)
	if !result.Valid {
		t.Fatalf("expected valid, errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v, want none", result.Errors)
	}
	if len(result.CheckedFields) != 9 {
		t.Errorf("checked fields = %v, want the nine sections", result.CheckedFields)
	}
}

func TestValidateScoreConsistencyMismatch(t *testing.T) {
	responses := fullResponseSet("frequentemente")
	persisted, _ := CalculateSectionScores(responses)
	persisted[SectionTactile] += 7

	result := ValidateScoreConsistency(responses, persisted)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", result.Errors)
	}
	msg := result.Errors[0]
	if !strings.Contains(msg, "tactileProcessing") || !strings.Contains(msg, "stored 51") || !strings.Contains(msg, "recalculated 44") {
		t.Errorf("mismatch message = %q", msg)
	}
}

func TestValidateScoreConsistencyUnscorableInput(t *testing.T) {
	responses := []ItemResponse{{ItemID: 1, Label: "bogus"}}
	persisted := emptySectionScores()

	result := ValidateScoreConsistency(responses, persisted)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Item 1") && strings.Contains(e, "bogus") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want unscorable-input error for item 1", result.Errors)
	}
}

func TestValidateScoreConsistencyRangeWarnings(t *testing.T) {
	// Sparse but matching scores: consistent, with range warnings.
	responses := []ItemResponse{{ItemID: 1, Label: "nunca"}}
	persisted, _ := CalculateSectionScores(responses)

	result := ValidateScoreConsistency(responses, persisted)
	if !result.Valid {
		t.Fatalf("expected valid, errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Errorf("expected range warnings for mostly-empty sheet")
	}
}

func TestValidateAgeConsistency(t *testing.T) {
	now, clock := fixedNow(t)

	birth := now.AddDate(-7, 0, -10) // age 7
	result := ValidateAgeConsistency(birth, nil, clock)
	if !result.Valid || len(result.Warnings) != 0 {
		t.Fatalf("age 7: valid=%v errors=%v warnings=%v", result.Valid, result.Errors, result.Warnings)
	}

	expected := 7
	result = ValidateAgeConsistency(birth, &expected, clock)
	if !result.Valid || len(result.Warnings) != 0 {
		t.Fatalf("matching expected age: warnings=%v", result.Warnings)
	}

	expected = 9
	result = ValidateAgeConsistency(birth, &expected, clock)
	if !result.Valid {
		t.Fatalf("expected-age mismatch must stay valid, errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Expected age 9") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateAgeConsistencyBoundaries(t *testing.T) {
	now, clock := fixedNow(t)

	// 3rd birthday was yesterday: exactly in band.
	r := ValidateAgeConsistency(now.AddDate(-3, 0, -1), nil, clock)
	if !r.Valid {
		t.Errorf("age 3: errors = %v", r.Errors)
	}
	// 3rd birthday is tomorrow: still 2.
	r = ValidateAgeConsistency(now.AddDate(-3, 0, 1), nil, clock)
	if r.Valid {
		t.Errorf("age 2 accepted")
	}
	// 14 is the inclusive upper bound.
	r = ValidateAgeConsistency(now.AddDate(-14, 0, -1), nil, clock)
	if !r.Valid {
		t.Errorf("age 14: errors = %v", r.Errors)
	}
	r = ValidateAgeConsistency(now.AddDate(-15, 0, -1), nil, clock)
	if r.Valid {
		t.Errorf("age 15 accepted")
	}
}

func TestValidateAgeConsistencyFutureBirth(t *testing.T) {
	now, clock := fixedNow(t)
	result := ValidateAgeConsistency(now.AddDate(0, 1, 0), nil, clock)
	if result.Valid {
		t.Fatalf("future birth accepted")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Birth date is in the future" {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestValidateResponseCompletenessFullForm(t *testing.T) {
	result := ValidateResponseCompleteness(fullResponseSet("nunca"))
	if !result.Valid || len(result.Warnings) != 0 {
		t.Fatalf("full form: errors=%v warnings=%v", result.Errors, result.Warnings)
	}
}

func TestValidateResponseCompletenessMissingSection(t *testing.T) {
	var responses []ItemResponse
	for id := MinItemID; id <= MaxItemID; id++ {
		if s, _ := SectionOf(id); s == SectionMovement {
			continue
		}
		responses = append(responses, ItemResponse{ItemID: id, Label: "nunca"})
	}

	result := ValidateResponseCompleteness(responses)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "movementProcessing") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestValidateResponseCompletenessPartialSection(t *testing.T) {
	// Answer 8 of 14 socialEmotional items (57%), everything else fully.
	var responses []ItemResponse
	dropped := 0
	for id := MinItemID; id <= MaxItemID; id++ {
		if s, _ := SectionOf(id); s == SectionSocialEmotional && dropped < 6 {
			dropped++
			continue
		}
		responses = append(responses, ItemResponse{ItemID: id, Label: "nunca"})
	}

	result := ValidateResponseCompleteness(responses)
	if !result.Valid {
		t.Fatalf("partial section must warn, not error: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "socialEmotionalResponses has 8 of 14") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateResponseCompletenessDuplicatesAndBadIDs(t *testing.T) {
	responses := fullResponseSet("nunca")
	responses = append(responses,
		ItemResponse{ItemID: 5, Label: "raramente"},
		ItemResponse{ItemID: 5, Label: "ocasionalmente"},
		ItemResponse{ItemID: 42, Label: "nunca"},
		ItemResponse{ItemID: 90, Label: "nunca"},
		ItemResponse{ItemID: 90, Label: "nunca"},
	)

	result := ValidateResponseCompleteness(responses)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}

	var dup5, dup42, bad90 int
	for _, e := range result.Errors {
		switch e {
		case "Duplicate responses for item 5":
			dup5++
		case "Duplicate responses for item 42":
			dup42++
		case "Invalid item ID: 90":
			bad90++
		}
	}
	if dup5 != 1 || dup42 != 1 || bad90 != 1 {
		t.Errorf("errors = %v; want one entry each for items 5, 42, 90", result.Errors)
	}
	if len(result.Errors) != 3 {
		t.Errorf("error count = %d, want 3", len(result.Errors))
	}
}

func TestValidateDateConsistency(t *testing.T) {
	now, clock := fixedNow(t)
	birth := now.AddDate(-8, 0, 0)

	assessed := now.AddDate(0, -1, 0)
	result := ValidateDateConsistency(assessed, &birth, assessed, clock)
	if !result.Valid || len(result.Warnings) != 0 {
		t.Fatalf("recent assessment: errors=%v warnings=%v", result.Errors, result.Warnings)
	}

	result = ValidateDateConsistency(now.AddDate(0, 0, 2), &birth, now, clock)
	if result.Valid {
		t.Fatalf("future assessment accepted")
	}
	if result.Errors[0] != "Assessment date is in the future" {
		t.Errorf("errors = %v", result.Errors)
	}

	result = ValidateDateConsistency(birth.AddDate(0, 0, -1), &birth, birth, clock)
	if result.Valid {
		t.Fatalf("assessment before birth accepted")
	}

	old := now.AddDate(-3, 0, 0)
	result = ValidateDateConsistency(old, &birth, old, clock)
	if !result.Valid {
		t.Fatalf("stale assessment must warn, not error: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "more than two years old") {
		t.Errorf("warnings = %v", result.Warnings)
	}

	assessed = now.AddDate(0, -2, 0)
	created := now
	result = ValidateDateConsistency(assessed, &birth, created, clock)
	if !result.Valid {
		t.Fatalf("creation drift must warn, not error: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "more than 30 days") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateAssessment(t *testing.T) {
	now, clock := fixedNow(t)
	responses := fullResponseSet("frequentemente")
	persisted, _ := CalculateSectionScores(responses)
	birth := now.AddDate(-6, -2, 0)
	assessed := now.AddDate(0, 0, -7)

	rec := AssessmentRecord{
		Responses:      responses,
		SectionScores:  persisted,
		BirthDate:      &birth,
		AssessmentDate: assessed,
		CreatedAt:      assessed,
	}

	result := ValidateAssessment(rec, clock)
	if !result.Valid {
		t.Fatalf("clean record: errors = %v", result.Errors)
	}
	if err := ErrIfInvalid(result, "assessment"); err != nil {
		t.Fatalf("ErrIfInvalid on valid result: %v", err)
	}

	// Checked fields from all checks, deduplicated.
	seen := map[string]int{}
	for _, f := range result.CheckedFields {
		seen[f]++
	}
	for f, n := range seen {
		if n > 1 {
			t.Errorf("checked field %q appears %d times", f, n)
		}
	}
	for _, want := range []string{"auditoryProcessing", "responses", "birthDate", "assessmentDate"} {
		if seen[want] == 0 {
			t.Errorf("checked fields missing %q: %v", want, result.CheckedFields)
		}
	}
}

func TestValidateAssessmentSkipsAgeAndDateWithoutBirthDate(t *testing.T) {
	_, clock := fixedNow(t)
	responses := fullResponseSet("nunca")
	persisted, _ := CalculateSectionScores(responses)

	rec := AssessmentRecord{
		Responses:      responses,
		SectionScores:  persisted,
		AssessmentDate: time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC), // would fail date check
	}

	result := ValidateAssessment(rec, clock)
	if !result.Valid {
		t.Fatalf("errors = %v; age/date checks must be skipped without a birth date", result.Errors)
	}
	for _, f := range result.CheckedFields {
		if f == "birthDate" || f == "assessmentDate" {
			t.Errorf("checked fields include %q without a birth date", f)
		}
	}
}

func TestErrIfInvalid(t *testing.T) {
	result := newCheckResult("responses")
	result.addError("first problem")
	result.addError("second problem")

	err := ErrIfInvalid(result, "")
	if err == nil || err.Error() != "first problem; second problem" {
		t.Errorf("err = %v", err)
	}

	err = ErrIfInvalid(result, "assessment 123")
	if err == nil || err.Error() != "assessment 123: first problem; second problem" {
		t.Errorf("err with context = %v", err)
	}

	warnOnly := newCheckResult("responses")
	warnOnly.addWarning("just a note")
	if err := ErrIfInvalid(warnOnly, "x"); err != nil {
		t.Errorf("warnings-only result produced error: %v", err)
	}
}
