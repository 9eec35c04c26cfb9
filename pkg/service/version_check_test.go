package service

import (
	"errors"
	"testing"
)

func TestCheckVersionCompatibility(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"", false},
		{"1.0", false},
		{"1.7", false},
		{"2.0", true},
		{"0.9", true},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := checkVersionCompatibility(tt.version)
			if tt.wantErr {
				if !errors.Is(err, ErrIncompatibleVersion) {
					t.Errorf("checkVersionCompatibility(%q) = %v, want ErrIncompatibleVersion", tt.version, err)
				}
				return
			}
			if err != nil {
				t.Errorf("checkVersionCompatibility(%q) = %v, want nil", tt.version, err)
			}
		})
	}
}
