package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/model"
)

type InterventionMapper struct{}

func NewInterventionMapper() *InterventionMapper {
	return &InterventionMapper{}
}

func (m *InterventionMapper) ToEntity(i *model.Intervention) *entity.Intervention {
	if i == nil {
		return nil
	}

	var actions []string
	if len(i.SuggestedActions) > 0 {
		// Malformed JSON degrades to an empty list rather than failing a read.
		_ = json.Unmarshal(i.SuggestedActions, &actions)
	}

	return &entity.Intervention{
		Id:               i.Id,
		UserId:           i.UserId,
		TriggerType:      i.TriggerType,
		RiskScore:        i.RiskScore,
		Message:          i.Message,
		SuggestedActions: actions,
		WasAcknowledged:  i.WasAcknowledged,
		AcknowledgedAt:   i.AcknowledgedAt,
		ActionTaken:      i.ActionTaken,
		WasHelpful:       i.WasHelpful,
		CreatedAt:        i.CreatedAt,
	}
}

func (m *InterventionMapper) ToModel(i *entity.Intervention) *model.Intervention {
	if i == nil {
		return nil
	}

	actions := i.SuggestedActions
	if actions == nil {
		actions = []string{}
	}
	actionsJSON, _ := json.Marshal(actions)

	return &model.Intervention{
		Id:               i.Id,
		UserId:           i.UserId,
		TriggerType:      i.TriggerType,
		RiskScore:        i.RiskScore,
		Message:          i.Message,
		SuggestedActions: datatypes.JSON(actionsJSON),
		WasAcknowledged:  i.WasAcknowledged,
		AcknowledgedAt:   i.AcknowledgedAt,
		ActionTaken:      i.ActionTaken,
		WasHelpful:       i.WasHelpful,
		CreatedAt:        i.CreatedAt,
	}
}
