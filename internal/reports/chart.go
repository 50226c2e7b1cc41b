package reports

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Chart geometry. Rows are sized for thirteen horizontal bars (nine
// sections plus four quadrants) with a gap between the two groups.
const (
	chartWidth    = 1000
	chartMargin   = 40
	chartRowH     = 42
	chartBarH     = 22
	chartLabelW   = 330
	chartValueW   = 110
	chartTitleH   = 96
	chartGroupGap = 26
	chartFooterH  = 56
)

var (
	chartInk     = color.NRGBA{R: 0x1F, G: 0x29, B: 0x33, A: 0xFF}
	chartMuted   = color.NRGBA{R: 0x6B, G: 0x77, B: 0x85, A: 0xFF}
	chartTrack   = color.NRGBA{R: 0xE8, G: 0xEC, B: 0xF0, A: 0xFF}
	sectionFill  = color.NRGBA{R: 0x2F, G: 0x6F, B: 0xB5, A: 0xFF}
	quadrantFill = color.NRGBA{R: 0x2E, G: 0x9E, B: 0x8F, A: 0xFF}
)

// Renderer draws the score chart artifact. The TTF it renders with
// comes from REPORT_FONT and is loaded once at construction.
type Renderer struct {
	titleFace font.Face
	labelFace font.Face
	smallFace font.Face
}

func NewRenderer() (*Renderer, error) {
	fontPath := os.Getenv("REPORT_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("Env var REPORT_FONT is empty")
	}

	titleFace, err := loadFontFace(fontPath, 26)
	if err != nil {
		return nil, fmt.Errorf("could not load report font: %w", err)
	}
	labelFace, err := loadFontFace(fontPath, 15)
	if err != nil {
		return nil, fmt.Errorf("could not load report font: %w", err)
	}
	smallFace, err := loadFontFace(fontPath, 13)
	if err != nil {
		return nil, fmt.Errorf("could not load report font: %w", err)
	}

	return &Renderer{
		titleFace: titleFace,
		labelFace: labelFace,
		smallFace: smallFace,
	}, nil
}

// RenderScoreChart draws one horizontal bar per section and quadrant,
// each scaled against its own attainable maximum so bars stay
// comparable across groups of different item counts.
func (r *Renderer) RenderScoreChart(s Summary) (bytes.Buffer, error) {
	rows := len(s.Sections) + len(s.Quadrants)
	height := chartTitleH + rows*chartRowH + chartGroupGap + chartFooterH

	dc := gg.NewContext(chartWidth, height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetFontFace(r.titleFace)
	dc.SetColor(chartInk)
	dc.DrawString("Sensory Profile Scores", chartMargin, 46)

	dc.SetFontFace(r.smallFace)
	dc.SetColor(chartMuted)
	subtitle := fmt.Sprintf("%s  |  %s  |  total %d de %d",
		s.ChildName,
		s.AssessmentDate.Format("02/01/2006"),
		s.TotalScore,
		s.TotalRange.Max,
	)
	dc.DrawString(subtitle, chartMargin, 74)

	y := float64(chartTitleH)
	for _, e := range s.Sections {
		r.drawBar(dc, e, y, sectionFill)
		y += chartRowH
	}
	y += chartGroupGap
	for _, e := range s.Quadrants {
		r.drawBar(dc, e, y, quadrantFill)
		y += chartRowH
	}

	r.drawLegend(dc, float64(height))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (r *Renderer) drawBar(dc *gg.Context, e ScoreEntry, y float64, fill color.NRGBA) {
	trackX := float64(chartLabelW)
	trackW := float64(chartWidth - chartLabelW - chartValueW - chartMargin)
	barY := y + (chartRowH-chartBarH)/2

	dc.SetFontFace(r.labelFace)
	dc.SetColor(chartInk)
	label := humanizeKey(e.Key)
	_, th := dc.MeasureString(label)
	dc.DrawString(label, chartMargin, y+chartRowH/2+th/2-2)

	dc.SetColor(chartTrack)
	dc.DrawRectangle(trackX, barY, trackW, chartBarH)
	dc.Fill()

	frac := 0.0
	if e.Max > 0 {
		frac = float64(e.Score) / float64(e.Max)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	dc.SetColor(fill)
	dc.DrawRectangle(trackX, barY, trackW*frac, chartBarH)
	dc.Fill()

	dc.SetFontFace(r.smallFace)
	dc.SetColor(chartMuted)
	dc.DrawString(fmt.Sprintf("%d / %d", e.Score, e.Max), trackX+trackW+14, y+chartRowH/2+4)
}

func (r *Renderer) drawLegend(dc *gg.Context, height float64) {
	y := height - chartFooterH/2

	dc.SetColor(sectionFill)
	dc.DrawRectangle(chartMargin, y-10, 14, 14)
	dc.Fill()
	dc.SetFontFace(r.smallFace)
	dc.SetColor(chartMuted)
	dc.DrawString("sections", chartMargin+22, y+2)

	dc.SetColor(quadrantFill)
	dc.DrawRectangle(chartMargin+120, y-10, 14, 14)
	dc.Fill()
	dc.SetColor(chartMuted)
	dc.DrawString("quadrants", chartMargin+142, y+2)
}

// humanizeKey spaces out a camelCase score key for display
// ("bodyPositionProcessing" becomes "Body Position Processing").
func humanizeKey(key string) string {
	var b strings.Builder
	for i, c := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(c))
			continue
		}
		if unicode.IsUpper(c) {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
