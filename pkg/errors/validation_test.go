package errors

import (
	"strings"
	"testing"
)

func TestValidateStoreKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid default", "gridLayoutState", false},
		{"valid with colon", "plotgrid:layout", false},
		{"valid with spaces", "my layout", false},

		{"empty", "", true},
		{"too long", strings.Repeat("k", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoreKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStoreKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"underscore prefix", "_dataPacket", false},
		{"plain", "packet", false},
		{"digits", "packet2", false},

		{"empty", "", true},
		{"leading digit", "2packet", true},
		{"dot", "a.b", true},
		{"space", "data packet", true},
		{"call", "f()", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "plotgrid.db", false},
		{"absolute", "/var/lib/plotgrid/state.db", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "a\x00b", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"mongodb", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"mongodb+srv", "mongodb+srv://cluster.example.net", []string{"mongodb", "mongodb+srv"}, false},
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost", []string{"redis", "rediss"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
