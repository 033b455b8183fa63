package util

import "testing"

func TestSplitCommaSeparated(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"Ethernet0", 1},
		{"Ethernet0,Ethernet4", 2},
		{"Ethernet0, Ethernet4, Ethernet8", 3},
	}

	for _, tt := range tests {
		got := SplitCommaSeparated(tt.input)
		if len(got) != tt.want {
			t.Errorf("SplitCommaSeparated(%q) = %v (len %d), want len %d", tt.input, got, len(got), tt.want)
		}
	}
}

func TestCollapseSpaces(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"blue net", "blue net"},
		{"  blue   net  ", "blue net"},
		{"one\ttwo", "one two"},
	}

	for _, tt := range tests {
		if got := CollapseSpaces(tt.input); got != tt.want {
			t.Errorf("CollapseSpaces(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Blue Net", "blue net", true},
		{"blue  net", "blue net", true},
		{"blue net", "red net", false},
		{"", "", true},
	}

	for _, tt := range tests {
		if got := LooseEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("LooseEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStripDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"sw1", "sw1"},
		{"sw1.dc1.example.com", "sw1"},
		{"sw1.local", "sw1"},
	}

	for _, tt := range tests {
		if got := StripDomain(tt.input); got != tt.want {
			t.Errorf("StripDomain(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
