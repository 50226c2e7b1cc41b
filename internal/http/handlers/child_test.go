package handlers

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2018-06-15")
	if err != nil {
		t.Fatalf("parseDate date-only: %v", err)
	}
	want := time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parseDate date-only: got=%v want=%v", got, want)
	}

	got, err = parseDate("2024-03-01T10:30:00Z")
	if err != nil {
		t.Fatalf("parseDate RFC3339: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Hour() != 10 {
		t.Fatalf("parseDate RFC3339: got=%v", got)
	}

	if _, err := parseDate(""); err == nil {
		t.Fatal("parseDate empty: expected error")
	}
	if _, err := parseDate("15/06/2018"); err == nil {
		t.Fatal("parseDate wrong layout: expected error")
	}
}
