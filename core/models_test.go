package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "What is COVID-19?",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "How long does the virus survive on surfaces such as plastic, steel and cardboard?",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("What is COVID-19?")
	id2 := IDFromContent("How to treat flu?")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		threshold float64
		want      Confidence
	}{
		{"well below", 0.1, 0.8, ConfidenceHigh},
		{"exactly at threshold", 0.8, 0.8, ConfidenceHigh},
		{"just above", 0.8000001, 0.8, ConfidenceLow},
		{"zero distance", 0, 0.8, ConfidenceHigh},
		{"zero threshold", 0.0001, 0, ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfidenceFor(tt.distance, tt.threshold); got != tt.want {
				t.Errorf("ConfidenceFor(%v, %v) = %v, want %v", tt.distance, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestConfidence_String(t *testing.T) {
	if ConfidenceHigh.String() != "1" {
		t.Errorf("ConfidenceHigh.String() = %q", ConfidenceHigh.String())
	}
	if ConfidenceLow.String() != "0" {
		t.Errorf("ConfidenceLow.String() = %q", ConfidenceLow.String())
	}
}

func TestNewCandidate(t *testing.T) {
	c := NewCandidate(3, "What is COVID-19?", "A viral respiratory illness.")
	if c.Index != 3 {
		t.Errorf("Index = %d, want 3", c.Index)
	}
	if c.ID != IDFromContent("What is COVID-19?") {
		t.Errorf("ID not derived from question")
	}
	if c.Answer != "A viral respiratory illness." {
		t.Errorf("Answer = %q", c.Answer)
	}
}
