package engine

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercase folds up", raw: "starbucks coffee", want: "STARBUCKSCOFFEE"},
		{name: "interior spaces stripped", raw: "TIM HORTONS #123", want: "TIMHORTONS#123"},
		{name: "tabs and newlines stripped", raw: "PAY\tPAL\nTRANSFER", want: "PAYPALTRANSFER"},
		{name: "leading and trailing whitespace", raw: "  UBER EATS  ", want: "UBEREATS"},
		{name: "empty input", raw: "", want: ""},
		{name: "whitespace only", raw: " \t\n ", want: ""},
		{name: "already normalized", raw: "NETFLIX.COM", want: "NETFLIX.COM"},
		{name: "accented characters fold", raw: "café dépôt", want: "CAFÉDÉPÔT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeSpaceInsensitive(t *testing.T) {
	// Descriptions differing only in whitespace must normalize identically.
	if Normalize("TIM HORTONS") != Normalize("TIMHORTONS") {
		t.Error("space-separated and joined forms should normalize identically")
	}
}
