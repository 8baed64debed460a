package agenttools

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/repository/contract"
	"recovery-coach-be/pkg/agent/tool"
)

type LogUrgeTool struct {
	wellness contract.WellnessRepository
}

func NewLogUrgeTool(wellness contract.WellnessRepository) *LogUrgeTool {
	return &LogUrgeTool{wellness: wellness}
}

func (t *LogUrgeTool) Name() string { return "log_urge" }

func (t *LogUrgeTool) Description() string {
	return "Log a craving or urge the user reports, with its intensity from 0 to 10 and an optional trigger. Use only when the user describes experiencing an urge."
}

func (t *LogUrgeTool) Kind() tool.Kind { return tool.KindWrite }

func (t *LogUrgeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"intensity": map[string]interface{}{
				"type":        "number",
				"description": "Urge intensity from 0 (none) to 10 (overwhelming)",
			},
			"trigger": map[string]interface{}{
				"type":        "string",
				"description": "What triggered the urge, in the user's words",
			},
		},
		"required": []string{"intensity"},
	}
}

func (t *LogUrgeTool) Execute(ctx context.Context, userID uuid.UUID, args map[string]interface{}) (string, error) {
	intensity := floatArg(args, "intensity", -1)
	if intensity < 0 || intensity > 10 {
		return "", fmt.Errorf("intensity must be between 0 and 10")
	}

	urge := &entity.UrgeLog{
		Id:        uuid.New(),
		UserId:    userID,
		Intensity: intensity,
		Trigger:   stringArg(args, "trigger"),
	}
	if err := t.wellness.CreateUrgeLog(ctx, urge); err != nil {
		return "", err
	}
	return fmt.Sprintf("Urge logged at intensity %.1f/10.", intensity), nil
}
