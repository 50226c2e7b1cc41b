package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported child age band, in whole years, for this form.
const (
	MinSupportedAge = 3
	MaxSupportedAge = 14
)

const (
	creationDriftMax      = 30 * 24 * time.Hour
	completenessThreshold = 0.75
)

// CheckResult is the outcome of one consistency check. Errors mark
// rule violations that must block validation; warnings are findings a
// reviewer should see but that never block.
type CheckResult struct {
	Valid         bool     `json:"is_valid"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	CheckedFields []string `json:"checked_fields"`
}

func newCheckResult(fields ...string) CheckResult {
	return CheckResult{
		Valid:         true,
		Errors:        []string{},
		Warnings:      []string{},
		CheckedFields: fields,
	}
}

func (r *CheckResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *CheckResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// MergeCheckResults combines check outcomes: errors and warnings are
// concatenated in input order, checked fields are deduplicated, and
// the merged result is valid only when every input is.
func MergeCheckResults(results ...CheckResult) CheckResult {
	merged := newCheckResult()
	seenFields := make(map[string]bool)
	for _, r := range results {
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.Warnings = append(merged.Warnings, r.Warnings...)
		for _, f := range r.CheckedFields {
			if seenFields[f] {
				continue
			}
			seenFields[f] = true
			merged.CheckedFields = append(merged.CheckedFields, f)
		}
		if !r.Valid {
			merged.Valid = false
		}
	}
	return merged
}

// ErrIfInvalid converts a failed check into a single error joining
// every finding with "; ", optionally prefixed with a context label.
// Valid results return nil regardless of warnings; callers are
// expected to surface warnings through their logger.
func ErrIfInvalid(result CheckResult, context string) error {
	if result.Valid {
		return nil
	}
	msg := strings.Join(result.Errors, "; ")
	if context != "" {
		msg = context + ": " + msg
	}
	return errors.New(msg)
}

// AssessmentRecord carries the persisted fields that full consistency
// validation inspects.
type AssessmentRecord struct {
	Responses      []ItemResponse
	SectionScores  SectionScores
	BirthDate      *time.Time
	ExpectedAge    *int
	AssessmentDate time.Time
	CreatedAt      time.Time
}

// ValidateScoreConsistency recomputes section scores from the raw
// responses and compares them with the persisted columns. Responses
// that cannot be scored are errors here: a stored score derived from
// unscorable input cannot be trusted. Range findings on the
// recomputed scores come back as warnings.
func ValidateScoreConsistency(responses []ItemResponse, persisted SectionScores, opts ...Option) CheckResult {
	fields := make([]string, 0, len(sectionOrder))
	for _, s := range sectionOrder {
		fields = append(fields, string(s))
	}
	result := newCheckResult(fields...)

	recomputed, invalid := CalculateSectionScores(responses, opts...)
	for _, msg := range invalid {
		result.addError("%s", msg)
	}

	for _, s := range sectionOrder {
		stored := persisted[s]
		calc := recomputed[s]
		if stored != calc {
			result.addError("Score mismatch for %s: stored %d, recalculated %d", s, stored, calc)
		}
	}

	rangeWarnings := ValidateScoreRanges(Results{SectionScores: recomputed})
	result.Warnings = append(result.Warnings, rangeWarnings...)

	return result
}

// ValidateAgeConsistency checks the child's calendar age, in whole
// years as of the validator's clock, against the supported band. A
// caller-supplied expected age that disagrees with the computed age
// is a warning: the stored birth date wins.
func ValidateAgeConsistency(birthDate time.Time, expectedAge *int, opts ...Option) CheckResult {
	o := buildOptions(opts)
	fields := []string{"birthDate"}
	if expectedAge != nil {
		fields = append(fields, "expectedAge")
	}
	result := newCheckResult(fields...)

	now := o.now()
	if birthDate.After(now) {
		result.addError("Birth date is in the future")
		return result
	}

	age := wholeYears(birthDate, now)
	if age < MinSupportedAge || age > MaxSupportedAge {
		result.addError("Age %d is outside the supported range [%d, %d]", age, MinSupportedAge, MaxSupportedAge)
	}
	if expectedAge != nil && *expectedAge != age {
		result.addWarning("Expected age %d does not match calculated age %d", *expectedAge, age)
	}

	return result
}

// ValidateResponseCompleteness checks the answered item set against
// the printed form: every item id must be real, answered at most
// once, and each section must be present. Sections answered below 75%
// of their printed item count are flagged as warnings.
func ValidateResponseCompleteness(responses []ItemResponse) CheckResult {
	result := newCheckResult("responses")

	counts := make(map[Section]int, len(sectionOrder))
	occurrences := make(map[int]int)
	var badIDs []int
	badSeen := make(map[int]bool)

	for _, resp := range responses {
		if !ValidItemID(resp.ItemID) {
			if !badSeen[resp.ItemID] {
				badSeen[resp.ItemID] = true
				badIDs = append(badIDs, resp.ItemID)
			}
			continue
		}
		occurrences[resp.ItemID]++
		if occurrences[resp.ItemID] > 1 {
			continue
		}
		if s, ok := SectionOf(resp.ItemID); ok {
			counts[s]++
		}
	}

	for _, id := range badIDs {
		result.addError("Invalid item ID: %d", id)
	}
	for id := MinItemID; id <= MaxItemID; id++ {
		if occurrences[id] > 1 {
			result.addError("Duplicate responses for item %d", id)
		}
	}

	for _, s := range sectionOrder {
		answered := counts[s]
		raw := SectionRawItemCount(s)
		switch {
		case answered == 0:
			result.addError("No responses for section %s", s)
		case float64(answered) < completenessThreshold*float64(raw):
			result.addWarning("Section %s has %d of %d items answered", s, answered, raw)
		}
	}

	return result
}

// ValidateDateConsistency checks the assessment date against the
// clock, the child's birth date, and the record creation timestamp.
func ValidateDateConsistency(assessmentDate time.Time, birthDate *time.Time, createdAt time.Time, opts ...Option) CheckResult {
	o := buildOptions(opts)
	fields := []string{"assessmentDate"}
	if birthDate != nil {
		fields = append(fields, "birthDate")
	}
	if !createdAt.IsZero() {
		fields = append(fields, "createdAt")
	}
	result := newCheckResult(fields...)

	now := o.now()
	if assessmentDate.After(now) {
		result.addError("Assessment date is in the future")
	}
	if birthDate != nil && assessmentDate.Before(*birthDate) {
		result.addError("Assessment date is before the child's birth date")
	}
	if assessmentDate.Before(now.AddDate(-2, 0, 0)) {
		result.addWarning("Assessment date is more than two years old")
	}
	if !createdAt.IsZero() {
		drift := assessmentDate.Sub(createdAt)
		if drift < 0 {
			drift = -drift
		}
		if drift > creationDriftMax {
			result.addWarning("Assessment date differs from record creation by more than 30 days")
		}
	}

	return result
}

// ValidateAssessment runs every applicable consistency check over one
// assessment and merges the outcomes. Score and completeness checks
// always run; age and date checks need a birth date to be meaningful
// and are skipped without one.
func ValidateAssessment(rec AssessmentRecord, opts ...Option) CheckResult {
	results := []CheckResult{
		ValidateScoreConsistency(rec.Responses, rec.SectionScores, opts...),
		ValidateResponseCompleteness(rec.Responses),
	}
	if rec.BirthDate != nil {
		results = append(results,
			ValidateAgeConsistency(*rec.BirthDate, rec.ExpectedAge, opts...),
			ValidateDateConsistency(rec.AssessmentDate, rec.BirthDate, rec.CreatedAt, opts...),
		)
	}
	return MergeCheckResults(results...)
}

// wholeYears computes completed calendar years between two instants.
func wholeYears(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if birth.AddDate(years, 0, 0).After(now) {
		years--
	}
	return years
}
