package normalize

import "testing"

func TestIsIdentityQuestion(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Who are you?", true},
		{"WHO ARE YOU", true},
		{"please tell me about yourself", true},
		{"what's your name", true},
		{"who developed you?", true},
		{"explain quicksort", false},
		{"", false},
		// Known false positive: substring matching is a deliberate
		// heuristic, "what are you" hits inside this phrase.
		{"what are you doing today", true},
	}

	for _, tt := range tests {
		if got := IsIdentityQuestion(tt.message); got != tt.want {
			t.Errorf("IsIdentityQuestion(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
