package crisis

import (
	"errors"
	"testing"
)

func TestKeywordDetector(t *testing.T) {
	d := NewKeywordDetector()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"benign message", "I went to a meeting today and felt okay", false},
		{"direct phrase", "sometimes I want to die", true},
		{"mixed case", "I've been thinking about SUICIDE", true},
		{"phrase inside sentence", "lately it feels like there's no reason to live anymore", true},
		{"self harm variant", "I keep wanting to hurt myself", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Detect(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestKeywordDetectorExtraPhrases(t *testing.T) {
	d := NewKeywordDetector("given up completely")
	got, _ := d.Detect("I have Given Up Completely")
	if !got {
		t.Error("extra phrase not matched")
	}
}

type failingDetector struct{}

func (failingDetector) Detect(string) (bool, error) {
	return false, errors.New("classifier unavailable")
}

func TestFailOpenTreatsErrorAsCrisis(t *testing.T) {
	d := FailOpen(failingDetector{})
	detected, err := d.Detect("completely harmless text")
	if err != nil {
		t.Fatalf("fail-open wrapper must swallow errors, got: %v", err)
	}
	if !detected {
		t.Error("detector failure must default to crisis, not silently skip the check")
	}
}

func TestFailOpenPassesThrough(t *testing.T) {
	d := FailOpen(NewKeywordDetector())
	if got, _ := d.Detect("nice sunny day"); got {
		t.Error("benign text flagged")
	}
	if got, _ := d.Detect("I want to die"); !got {
		t.Error("crisis text not flagged")
	}
}
