package numeric

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
	}{
		{"1055.5", 0, "1056"},
		{"1055.49", 0, "1055"},
		{"-1055.5", 0, "-1056"},
		{"-1055.4", 0, "-1055"},
		{"2.5", 0, "3"},
		{"-2.5", 0, "-3"},
		{"50.004", 2, "50"},
		{"50.005", 2, "50.01"},
		{"50.006", 2, "50.01"},
		{"0", 2, "0"},
		{"150000", 0, "150000"},
		{"12.3456", 3, "12.346"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := RoundHalfAwayFromZero(decimal.RequireFromString(tt.in), tt.places)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("RoundHalfAwayFromZero(%s, %d) = %s, want %s", tt.in, tt.places, got, tt.want)
			}
		})
	}
}

func TestRoundFloat(t *testing.T) {
	if got := RoundFloat(50.004, 2); got != 50.00 {
		t.Errorf("expected 50.00, got %v", got)
	}
	if got := RoundFloat(50.005, 2); got != 50.01 {
		t.Errorf("expected 50.01, got %v", got)
	}
	if got := RoundFloat(1.005, 2); got != 1.01 {
		t.Errorf("expected 1.01, got %v", got)
	}
	if got := RoundFloat(math.Inf(1), 2); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf, got %v", got)
	}
	if got := RoundFloat(math.NaN(), 2); !math.IsNaN(got) {
		t.Errorf("expected NaN, got %v", got)
	}
}
