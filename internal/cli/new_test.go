package cli

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Ops", "ops"},
		{"spaces", "Ops Overview", "ops-overview"},
		{"punctuation", "Ops: Overview (v2)", "ops-overview-v2"},
		{"separator runs collapse", "a  --  b", "a-b"},
		{"padding trimmed", "  padded  ", "padded"},
		{"digits kept", "Q3 2025", "q3-2025"},
		{"nothing left", "!!!", "dashboard"},
		{"empty", "", "dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
