package geo

import "testing"

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{0.5, "1 m"},
		{999, "999 m"},
		{999.4, "999 m"},
		{999.6, "1.0 km"},
		{1000, "1.0 km"},
		{1549, "1.5 km"},
		{1550, "1.6 km"},
		{12345, "12.3 km"},
		{250000, "250.0 km"},
		{-5, "0 m"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}
