package observability

import "testing"

func TestClassifyFinding(t *testing.T) {
	tests := []struct {
		name      string
		finding   string
		wantIssue string
		wantKey   string
	}{
		{
			name:      "score mismatch names the section",
			finding:   "Score mismatch for tactileProcessing: stored 40, recalculated 38",
			wantIssue: "score_mismatch",
			wantKey:   "tactileProcessing",
		},
		{
			name:      "quadrant mismatch",
			finding:   "Score mismatch for seeking: stored 90, recalculated 88",
			wantIssue: "score_mismatch",
			wantKey:   "seeking",
		},
		{
			name:      "duplicate item",
			finding:   "Duplicate responses for item 12",
			wantIssue: "duplicate_item",
			wantKey:   "12",
		},
		{
			name:      "invalid item id",
			finding:   "Invalid item ID: 99",
			wantIssue: "invalid_item",
			wantKey:   "99",
		},
		{
			name:      "unmapped item",
			finding:   "No section mapping for item 87",
			wantIssue: "invalid_item",
			wantKey:   "87",
		},
		{
			name:      "bad response label",
			finding:   `Item 7: invalid response value: "sempre"`,
			wantIssue: "invalid_label",
			wantKey:   "7",
		},
		{
			name:      "missing section responses",
			finding:   "No responses for section auditoryProcessing",
			wantIssue: "incomplete_responses",
			wantKey:   "auditoryProcessing",
		},
		{
			name:      "partial section coverage",
			finding:   "Section visualProcessing has 5 of 10 items answered",
			wantIssue: "incomplete_responses",
			wantKey:   "visualProcessing",
		},
		{
			name:      "future birth date",
			finding:   "Birth date is in the future",
			wantIssue: "age_inconsistency",
			wantKey:   "",
		},
		{
			name:      "age out of range",
			finding:   "Age 14 is outside the supported range [3, 10]",
			wantIssue: "age_inconsistency",
			wantKey:   "",
		},
		{
			name:      "assessment before birth",
			finding:   "Assessment date is before the child's birth date",
			wantIssue: "date_inconsistency",
			wantKey:   "",
		},
		{
			name:      "stale assessment",
			finding:   "Assessment date is more than two years old",
			wantIssue: "date_inconsistency",
			wantKey:   "",
		},
		{
			name:      "unknown text falls through",
			finding:   "something unexpected happened",
			wantIssue: "validation_error",
			wantKey:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, key := classifyFinding(tt.finding)
			if issue != tt.wantIssue {
				t.Errorf("issue = %q, want %q", issue, tt.wantIssue)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
		})
	}
}
