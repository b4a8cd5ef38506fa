// ABOUTME: Tests for the quiet hours gate.
// ABOUTME: Covers plain windows, midnight wraparound, and the disabled zero-width window.
package gate

import "testing"

func TestQuietPlainWindow(t *testing.T) {
	cases := []struct {
		hour int
		want bool
	}{
		{1, false},
		{2, true},
		{5, true},
		{6, true},
		{7, false},
		{12, false},
	}
	for _, tc := range cases {
		if got := IsQuiet(2, 7, tc.hour); got != tc.want {
			t.Errorf("IsQuiet(2, 7, %d) = %v, want %v", tc.hour, got, tc.want)
		}
	}
}

func TestQuietWrapsMidnight(t *testing.T) {
	cases := []struct {
		hour int
		want bool
	}{
		{23, true},
		{0, true},
		{3, true},
		{5, true},
		{6, false},
		{10, false},
		{21, false},
		{22, true},
	}
	for _, tc := range cases {
		if got := IsQuiet(22, 6, tc.hour); got != tc.want {
			t.Errorf("IsQuiet(22, 6, %d) = %v, want %v", tc.hour, got, tc.want)
		}
	}
}

func TestQuietZeroWidthWindowDisabled(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		if IsQuiet(4, 4, hour) {
			t.Errorf("IsQuiet(4, 4, %d) = true, want false", hour)
		}
	}
}
