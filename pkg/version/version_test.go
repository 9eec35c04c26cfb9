package version

import (
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		"1.x",
		"-1.0",
		".1",
		"70000.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestProtocol_String(t *testing.T) {
	v := Protocol{Major: 3, Minor: 14}
	if got := v.String(); got != "3.14" {
		t.Errorf("String() = %q, want %q", got, "3.14")
	}
}

func TestCompatible(t *testing.T) {
	v10 := MustParse("1.0")

	if !v10.Compatible(MustParse("1.5")) {
		t.Error("1.0 should be compatible with 1.5")
	}
	if v10.Compatible(MustParse("2.0")) {
		t.Error("1.0 should not be compatible with 2.0")
	}
}

func TestLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.0", "1.1", true},
		{"1.1", "1.0", false},
		{"1.9", "2.0", true},
		{"1.0", "1.0", false},
	}
	for _, tt := range tests {
		if got := MustParse(tt.a).Less(MustParse(tt.b)); got != tt.want {
			t.Errorf("%s.Less(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on malformed input")
		}
	}()
	MustParse("one")
}

func TestCurrent(t *testing.T) {
	if _, err := Parse(Current); err != nil {
		t.Fatalf("Current %q does not parse: %v", Current, err)
	}
	if !strings.Contains(Info(), "protocol "+Current) {
		t.Errorf("Info() = %q, want protocol %s", Info(), Current)
	}
}
