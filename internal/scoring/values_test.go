package scoring

import (
	"errors"
	"testing"
)

func TestMapResponseValue(t *testing.T) {
	cases := []struct {
		label string
		want  int
	}{
		// canonical portuguese
		{"nunca", 1},
		{"raramente", 2},
		{"ocasionalmente", 3},
		{"frequentemente", 4},
		{"quase sempre", 5},
		{"não se aplica", 0},

		// english
		{"never", 1},
		{"rarely", 2},
		{"occasionally", 3},
		{"frequently", 4},
		{"almost always", 5},
		{"not applicable", 0},

		// legacy aliases
		{"almost never", 1},
		{"seldom", 2},
		{"half the time", 3},
		{"often", 4},
		{"always", 5},
		{"na", 0},
		{"n/a", 0},
		{"nao se aplica", 0},

		// case and whitespace insensitivity
		{"NUNCA", 1},
		{"Quase Sempre", 5},
		{"  frequentemente  ", 4},
		{"\tAlmost Always\n", 5},
	}
	for _, tc := range cases {
		got, err := MapResponseValue(tc.label)
		if err != nil {
			t.Errorf("MapResponseValue(%q): unexpected error %v", tc.label, err)
			continue
		}
		if got != tc.want {
			t.Errorf("MapResponseValue(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}
}

func TestMapResponseValueRejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"", "sometimes", "quase", "5", "freq", "nunca mais"} {
		_, err := MapResponseValue(label)
		if err == nil {
			t.Errorf("MapResponseValue(%q): expected error", label)
			continue
		}
		var ire *InvalidResponseError
		if !errors.As(err, &ire) {
			t.Errorf("MapResponseValue(%q): error type %T, want *InvalidResponseError", label, err)
			continue
		}
		if ire.Label != label {
			t.Errorf("InvalidResponseError.Label = %q, want verbatim %q", ire.Label, label)
		}
	}
}
