package utils

import "testing"

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Standard Price", "$1,079.00", 1079.00},
		{"Price with Currency Suffix", "$2,550.50 CAD", 2550.50},
		{"Was Price", "Was $219.41", 219.41},
		{"Integer Price", "$99", 99.0},
		{"Bare Number", "12.97", 12.97},
		{"Empty String", "", 0.0},
		{"Invalid String", "No Price", 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParsePrice(tc.input)
			if result != tc.expected {
				t.Errorf("ParsePrice(%q) = %f; want %f", tc.input, result, tc.expected)
			}
		})
	}
}

func TestRoundTo(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		places   int
		expected float64
	}{
		{"Two Places", 33.333333, 2, 33.33},
		{"Rounds Up", 49.999, 2, 50.0},
		{"Zero Places", 12.7, 0, 13.0},
		{"Already Rounded", 25.5, 2, 25.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := RoundTo(tc.value, tc.places)
			if result != tc.expected {
				t.Errorf("RoundTo(%f, %d) = %f; want %f", tc.value, tc.places, result, tc.expected)
			}
		})
	}
}
