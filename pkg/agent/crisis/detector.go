package crisis

import (
	"strings"
)

// Detector classifies text as crisis or not. The keyword implementation is
// deliberately simple; the interface exists so a more robust classifier can
// replace it without touching the surrounding pipeline.
type Detector interface {
	Detect(text string) (bool, error)
}

// Default phrase list, matched case-insensitively as substrings. Provisional
// pending clinical review.
var defaultPhrases = []string{
	"kill myself",
	"end my life",
	"suicide",
	"suicidal",
	"want to die",
	"wanna die",
	"better off dead",
	"hurt myself",
	"harm myself",
	"self harm",
	"self-harm",
	"no reason to live",
	"can't go on",
	"end it all",
	"overdose",
}

// SafetyResources is the text appended to every crisis-flagged response,
// independent of which lane or provider handled the turn.
const SafetyResources = "If you're in crisis or thinking about harming yourself, please reach out now: " +
	"call or text 988 (Suicide & Crisis Lifeline, 24/7), text HOME to 741741 (Crisis Text Line), " +
	"or call 1-800-662-4357 (SAMHSA National Helpline). You don't have to go through this alone."

// SafetyResponse is the full override reply used when a crisis cuts the
// normal pipeline short.
const SafetyResponse = "I'm really glad you told me. What you're feeling matters, and you deserve support right now.\n\n" + SafetyResources

type KeywordDetector struct {
	phrases []string
}

var _ Detector = &KeywordDetector{}

func NewKeywordDetector(extraPhrases ...string) *KeywordDetector {
	phrases := make([]string, 0, len(defaultPhrases)+len(extraPhrases))
	phrases = append(phrases, defaultPhrases...)
	phrases = append(phrases, extraPhrases...)
	return &KeywordDetector{phrases: phrases}
}

func (d *KeywordDetector) Detect(text string) (bool, error) {
	lowered := strings.ToLower(text)
	for _, phrase := range d.phrases {
		if strings.Contains(lowered, phrase) {
			return true, nil
		}
	}
	return false, nil
}

// failOpen wraps a Detector so a detector failure is treated as a positive
// match instead of silently disabling the safety layer.
type failOpen struct {
	inner Detector
}

func FailOpen(inner Detector) Detector {
	return &failOpen{inner: inner}
}

func (f *failOpen) Detect(text string) (bool, error) {
	detected, err := f.inner.Detect(text)
	if err != nil {
		return true, nil
	}
	return detected, nil
}
