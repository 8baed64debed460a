package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/model"
)

type ObservabilityMapper struct{}

func NewObservabilityMapper() *ObservabilityMapper {
	return &ObservabilityMapper{}
}

func (m *ObservabilityMapper) ToModel(e *entity.ObservabilityLog) *model.ObservabilityLog {
	if e == nil {
		return nil
	}

	tools := e.ToolsCalled
	if tools == nil {
		tools = []string{}
	}
	toolsJSON, _ := json.Marshal(tools)

	return &model.ObservabilityLog{
		Id:                    e.Id,
		UserId:                e.UserId,
		FunctionName:          e.FunctionName,
		InputSummary:          e.InputSummary,
		ResponseSummary:       e.ResponseSummary,
		ResponseTimeMs:        e.ResponseTimeMs,
		ModelUsed:             e.ModelUsed,
		ToolsCalled:           datatypes.JSON(toolsJSON),
		ErrorMessage:          e.ErrorMessage,
		CrisisDetected:        e.CrisisDetected,
		InterventionTriggered: e.InterventionTriggered,
		InterventionType:      e.InterventionType,
		CreatedAt:             e.CreatedAt,
	}
}

func (m *ObservabilityMapper) ToEntity(l *model.ObservabilityLog) *entity.ObservabilityLog {
	if l == nil {
		return nil
	}

	var tools []string
	if len(l.ToolsCalled) > 0 {
		_ = json.Unmarshal(l.ToolsCalled, &tools)
	}

	return &entity.ObservabilityLog{
		Id:                    l.Id,
		UserId:                l.UserId,
		FunctionName:          l.FunctionName,
		InputSummary:          l.InputSummary,
		ResponseSummary:       l.ResponseSummary,
		ResponseTimeMs:        l.ResponseTimeMs,
		ModelUsed:             l.ModelUsed,
		ToolsCalled:           tools,
		ErrorMessage:          l.ErrorMessage,
		CrisisDetected:        l.CrisisDetected,
		InterventionTriggered: l.InterventionTriggered,
		InterventionType:      l.InterventionType,
		CreatedAt:             l.CreatedAt,
	}
}
