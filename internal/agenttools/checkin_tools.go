package agenttools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/repository/contract"
	"recovery-coach-be/pkg/agent/tool"
)

type GetCheckInHistoryTool struct {
	wellness contract.WellnessRepository
}

func NewGetCheckInHistoryTool(wellness contract.WellnessRepository) *GetCheckInHistoryTool {
	return &GetCheckInHistoryTool{wellness: wellness}
}

func (t *GetCheckInHistoryTool) Name() string { return "get_checkin_history" }

func (t *GetCheckInHistoryTool) Description() string {
	return "Fetch the user's recent daily check-ins with mood ratings and notes."
}

func (t *GetCheckInHistoryTool) Kind() tool.Kind { return tool.KindRead }

func (t *GetCheckInHistoryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of check-ins to return, default 7",
			},
		},
	}
}

func (t *GetCheckInHistoryTool) Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error) {
	limit := intArg(args, "limit", 7)
	since := time.Now().Add(-recentLookback)

	checkIns, err := t.wellness.RecentCheckIns(ctx, userID, since, limit)
	if err != nil {
		return "", err
	}
	if len(checkIns) == 0 {
		return "No check-ins in the last two weeks.", nil
	}

	var b strings.Builder
	for _, c := range checkIns {
		fmt.Fprintf(&b, "[%s] mood %.1f/10", c.CreatedAt.Format("2006-01-02"), c.MoodRating)
		if c.Note != "" {
			fmt.Fprintf(&b, ": %s", c.Note)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

type GetMoodTrendTool struct {
	wellness contract.WellnessRepository
}

func NewGetMoodTrendTool(wellness contract.WellnessRepository) *GetMoodTrendTool {
	return &GetMoodTrendTool{wellness: wellness}
}

func (t *GetMoodTrendTool) Name() string { return "get_mood_trend" }

func (t *GetMoodTrendTool) Description() string {
	return "Summarize the user's mood trend over the past week from their check-in ratings."
}

func (t *GetMoodTrendTool) Kind() tool.Kind { return tool.KindRead }

func (t *GetMoodTrendTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *GetMoodTrendTool) Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error) {
	since := time.Now().Add(-7 * 24 * time.Hour)
	scores, err := t.wellness.RecentMoodScores(ctx, userID, since, 14)
	if err != nil {
		return "", err
	}
	if len(scores) == 0 {
		return "No mood data recorded in the past week.", nil
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	// Scores arrive newest first.
	direction := "steady"
	if len(scores) >= 2 {
		newest, oldest := scores[0], scores[len(scores)-1]
		switch {
		case newest-oldest >= 1:
			direction = "improving"
		case oldest-newest >= 1:
			direction = "declining"
		}
	}

	return fmt.Sprintf("Average mood over the past week: %.1f/10 across %d check-ins, trend %s. Latest rating: %.1f/10.",
		avg, len(scores), direction, scores[0]), nil
}

type RecordCheckInTool struct {
	wellness contract.WellnessRepository
}

func NewRecordCheckInTool(wellness contract.WellnessRepository) *RecordCheckInTool {
	return &RecordCheckInTool{wellness: wellness}
}

func (t *RecordCheckInTool) Name() string { return "record_checkin" }

func (t *RecordCheckInTool) Description() string {
	return "Record a daily check-in on the user's behalf when they share how they are feeling and want it logged. Requires a mood rating from 0 to 10."
}

func (t *RecordCheckInTool) Kind() tool.Kind { return tool.KindWrite }

func (t *RecordCheckInTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"mood_rating": map[string]interface{}{
				"type":        "number",
				"description": "Mood rating from 0 (worst) to 10 (best)",
			},
			"note": map[string]interface{}{
				"type":        "string",
				"description": "Optional short note in the user's words",
			},
		},
		"required": []string{"mood_rating"},
	}
}

func (t *RecordCheckInTool) Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error) {
	rating := floatArg(args, "mood_rating", -1)
	if rating < 0 || rating > 10 {
		return "", fmt.Errorf("mood_rating must be between 0 and 10")
	}

	checkIn := &entity.CheckIn{
		Id:         uuid.New(),
		UserId:     userID,
		MoodRating: rating,
		Note:       stringArg(args, "note"),
	}
	if err := t.wellness.CreateCheckIn(ctx, checkIn); err != nil {
		return "", err
	}
	return fmt.Sprintf("Check-in recorded with mood %.1f/10.", rating), nil
}
