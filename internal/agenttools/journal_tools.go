package agenttools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recovery-coach-be/internal/repository/contract"
	"recovery-coach-be/pkg/agent/tool"
)

const recentLookback = 14 * 24 * time.Hour

// GetRecentJournalEntriesTool exposes the user's latest journal entries to
// the model. Entry content is returned verbatim, so the loop runs crisis
// detection on every result this tool produces.
type GetRecentJournalEntriesTool struct {
	wellness contract.WellnessRepository
}

func NewGetRecentJournalEntriesTool(wellness contract.WellnessRepository) *GetRecentJournalEntriesTool {
	return &GetRecentJournalEntriesTool{wellness: wellness}
}

func (t *GetRecentJournalEntriesTool) Name() string { return "get_recent_journal_entries" }

func (t *GetRecentJournalEntriesTool) Description() string {
	return "Fetch the user's most recent journal entries with their mood scores. Use this when the user asks about their journaling or you need recent context about how they have been feeling."
}

func (t *GetRecentJournalEntriesTool) Kind() tool.Kind { return tool.KindRead }

func (t *GetRecentJournalEntriesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of entries to return, default 5",
			},
		},
	}
}

func (t *GetRecentJournalEntriesTool) Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error) {
	limit := intArg(args, "limit", 5)
	since := time.Now().Add(-recentLookback)

	entries, err := t.wellness.RecentJournalEntries(ctx, userID, since, limit)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No journal entries in the last two weeks.", nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s] mood %.1f/10: %s\n", e.CreatedAt.Format("2006-01-02"), e.MoodScore, e.Content)
	}
	return b.String(), nil
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	v, ok := args[key]
	if !ok {
		return fallback
	}
	// JSON numbers decode as float64.
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return fallback
}

func floatArg(args map[string]interface{}, key string, fallback float64) float64 {
	v, ok := args[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return fallback
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
