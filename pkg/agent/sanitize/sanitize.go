package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputLength caps user input before it reaches any model.
const MaxInputLength = 4000

// Role/delimiter markers various chat templates use. Any of these inside
// user text is an injection attempt, not content.
var injectionMarkers = []string{
	"<|im_start|>",
	"<|im_end|>",
	"<|system|>",
	"<|user|>",
	"<|assistant|>",
	"<<SYS>>",
	"<</SYS>>",
	"[INST]",
	"[/INST]",
	"### System:",
	"### Instruction:",
	"### Assistant:",
}

var (
	toolCallBlockRe = regexp.MustCompile(`(?s)<tool_call>.*?</tool_call>`)
	toolCallTagRe   = regexp.MustCompile(`</?tool_call>`)
	rolePrefixRe    = regexp.MustCompile(`(?i)^(assistant|model|system)\s*:\s*`)
)

// Input truncates to MaxInputLength and strips role/delimiter injection
// markers. Pure and idempotent: applying it twice equals applying it once.
// Non-text input degrades to the empty string.
func Input(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, marker := range injectionMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.TrimSpace(s)
	if len(s) > MaxInputLength {
		// Back off to a rune start so the cut never produces invalid
		// UTF-8.
		cut := MaxInputLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}

// Response removes residual tool-call syntax and provider role markers from
// final model output. Idempotent for the same reason as Input.
func Response(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = toolCallBlockRe.ReplaceAllString(s, "")
	s = toolCallTagRe.ReplaceAllString(s, "")
	s = rolePrefixRe.ReplaceAllString(s, "")
	for _, marker := range injectionMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	return strings.TrimSpace(s)
}
