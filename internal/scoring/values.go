package scoring

import (
	"fmt"
	"strings"
)

// Frequency scale values. Zero marks "not applicable" and never
// contributes to a score.
const (
	ValueNotApplicable = 0
	ValueNever         = 1
	ValueRarely        = 2
	ValueOccasionally  = 3
	ValueFrequently    = 4
	ValueAlmostAlways  = 5
)

// responseValues maps every accepted answer label to its scale value.
// Keys are lowercase; lookup trims and lowercases the input. The
// Portuguese labels are the canonical form vocabulary; the English
// labels and the remaining aliases cover earlier exports that must
// keep scoring identically.
var responseValues = map[string]int{
	// canonical (pt-BR)
	"nunca":          ValueNever,
	"raramente":      ValueRarely,
	"ocasionalmente": ValueOccasionally,
	"frequentemente": ValueFrequently,
	"quase sempre":   ValueAlmostAlways,
	"não se aplica":  ValueNotApplicable,

	// english
	"never":          ValueNever,
	"rarely":         ValueRarely,
	"occasionally":   ValueOccasionally,
	"frequently":     ValueFrequently,
	"almost always":  ValueAlmostAlways,
	"not applicable": ValueNotApplicable,

	// legacy aliases
	"almost never":  ValueNever,
	"seldom":        ValueRarely,
	"half the time": ValueOccasionally,
	"often":         ValueFrequently,
	"always":        ValueAlmostAlways,
	"na":            ValueNotApplicable,
	"n/a":           ValueNotApplicable,
	"nao se aplica": ValueNotApplicable, // unaccented spelling from old imports
}

// InvalidResponseError reports an answer label outside the accepted
// vocabulary. Label carries the input verbatim.
type InvalidResponseError struct {
	Label string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response value: %q", e.Label)
}

// MapResponseValue resolves an answer label to its scale value.
// Matching is case-insensitive and ignores surrounding whitespace;
// there is no partial matching and no fallback value.
func MapResponseValue(label string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	v, ok := responseValues[key]
	if !ok {
		return 0, &InvalidResponseError{Label: label}
	}
	return v, nil
}
