package reports

import (
	"bytes"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

func TestNewRendererRequiresFont(t *testing.T) {
	t.Setenv("REPORT_FONT", "")
	if _, err := NewRenderer(); err == nil {
		t.Fatal("expected error without REPORT_FONT")
	}
}

func TestNewRendererRejectsMissingFile(t *testing.T) {
	t.Setenv("REPORT_FONT", "/nonexistent/font.ttf")
	if _, err := NewRenderer(); err == nil {
		t.Fatal("expected error for missing font file")
	}
}

// Needs a real TTF on disk; set TEST_REPORT_FONT to run.
func TestRenderScoreChart(t *testing.T) {
	fontPath := os.Getenv("TEST_REPORT_FONT")
	if fontPath == "" {
		t.Skip("set TEST_REPORT_FONT to run chart render tests")
	}
	t.Setenv("REPORT_FONT", fontPath)

	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	s := BuildSummary(SummaryInput{
		AssessmentID:   "a2a64c9e-3c38-4a9f-9f5c-0a9a4ab0a001",
		ChildName:      "Ana Souza",
		ChildAgeYears:  7,
		AssessmentDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Results:        scoring.CalculateScores(fullResponses("ocasionalmente")),
	})

	buf, err := r.RenderScoreChart(s)
	if err != nil {
		t.Fatalf("RenderScoreChart: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width != chartWidth {
		t.Errorf("width = %d, want %d", cfg.Width, chartWidth)
	}
	wantHeight := chartTitleH + (len(s.Sections)+len(s.Quadrants))*chartRowH + chartGroupGap + chartFooterH
	if cfg.Height != wantHeight {
		t.Errorf("height = %d, want %d", cfg.Height, wantHeight)
	}
}
