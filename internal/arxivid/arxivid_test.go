// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxivid

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "2511.00617", "2511.00617"},
		{"version stripped", "2511.00617v1", "2511.00617"},
		{"multi-digit version", "2511.00617v12", "2511.00617"},
		{"arxiv prefix", "arXiv:2511.00617v2", "2511.00617"},
		{"abs url", "https://arxiv.org/abs/2511.00617", "2511.00617"},
		{"whitespace", "  2511.00617v1 ", "2511.00617"},
		{"old format", "hep-th/9901001", "hep-th/9901001"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2511.00617v3", 3},
		{"2511.00617", 1},
		{"2511.00617v12", 12},
		{"", 1},
	}
	for _, tt := range tests {
		if got := Version(tt.in); got != tt.want {
			t.Errorf("Version(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2511.00617", true},
		{"2511.00617v1", true},
		{"2301.0761", true},
		{"hep-th/9901001", true},
		{"arXiv:2511.00617", true},
		{"", false},
		{"not-an-id", false},
		{"12.34", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
