package lang

import "testing"

func TestCharClassifiers(t *testing.T) {
	tests := []struct {
		name string
		pred func(rune) bool
		yes  string
		no   string
	}{
		{name: "alpha", pred: IsAlpha, yes: "azAZ_", no: "09 -.é"},
		{name: "alphanumeric", pred: IsAlphanumeric, yes: "azAZ09_", no: " -.(é"},
		{name: "decimal", pred: IsDecDigit, yes: "0123456789", no: "aA_ x"},
		{name: "hex", pred: IsHexDigit, yes: "09afAF", no: "gG_x "},
		{name: "octal", pred: IsOctDigit, yes: "01234567", no: "89a"},
		{name: "space", pred: IsSpace, yes: " \t", no: "\n\ra"},
		{name: "blank", pred: IsBlank, yes: " \t\n\r", no: "a_0"},
		{name: "matches", pred: Matches(IsDecDigit), yes: "05", no: "x"},
		{name: "matches nil", pred: Matches(nil), yes: "", no: "a0 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range tt.yes {
				if !tt.pred(r) {
					t.Errorf("%q should match", r)
				}
			}

			for _, r := range tt.no {
				if tt.pred(r) {
					t.Errorf("%q should not match", r)
				}
			}
		})
	}
}
