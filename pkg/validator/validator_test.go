package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "Tom & Jerry's", "Tom & Jerry's"},
		{"comparison kept", "5 > 3", "5 > 3"},
		{"quotes kept", `say "hi"`, `say "hi"`},
		{"tags removed", "<b>bold</b> move", "bold move"},
		{"script dropped", "Ada <script>alert(1)</script>", "Ada"},
		{"trimmed", "  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContactName_LengthCountsPlainText(t *testing.T) {
	name := StripHTML(strings.Repeat("&", maxContactNameLen))
	assert.Equal(t, maxContactNameLen, len(name))
	assert.NoError(t, ContactName(name))
}

func TestDetectedMediaType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name     string
		declared string
		head     []byte
		want     string
		wantErr  bool
	}{
		{"declared matches", "image/png", png, "image/png", false},
		{"declared with params", "image/png; charset=binary", png, "image/png", false},
		{"nothing declared", "", png, "image/png", false},
		{"declared jpeg but png", "image/jpeg", png, "", true},
		{"html disguised as png", "image/png", []byte("<html><script>alert(1)</script>"), "", true},
		{"svg", "image/svg+xml", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), "", true},
		{"pdf", "application/pdf", []byte("%PDF-1.7\n"), "application/pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectedMediaType(tt.declared, tt.head)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectedMediaType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectedMediaType() = %q, want %q", got, tt.want)
			}
		})
	}
}
