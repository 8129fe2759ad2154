package engine

import (
	"math"
	"testing"
)

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical", "office supplies", "office supplies", 100},
		{"case and spacing ignored", "OFFICE  SUPPLIES", "office supplies", 100},
		{"both empty", "", "", 100},
		{"completely different", "abc", "xyz", 0},
		{"one edit", "invoice", "invoics", 100.0 * 6.0 / 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("StringSimilarity(%q, %q) = %.2f, want %.2f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := levenshteinDistance(tt.a, tt.b); got != tt.expected {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
