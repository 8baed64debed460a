package mapper

import (
	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/model"
)

type WellnessMapper struct{}

func NewWellnessMapper() *WellnessMapper {
	return &WellnessMapper{}
}

func (m *WellnessMapper) CheckInToEntity(c *model.CheckIn) *entity.CheckIn {
	if c == nil {
		return nil
	}
	return &entity.CheckIn{
		Id:         c.Id,
		UserId:     c.UserId,
		MoodRating: c.MoodRating,
		Note:       c.Note,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *WellnessMapper) CheckInToModel(c *entity.CheckIn) *model.CheckIn {
	if c == nil {
		return nil
	}
	return &model.CheckIn{
		Id:         c.Id,
		UserId:     c.UserId,
		MoodRating: c.MoodRating,
		Note:       c.Note,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *WellnessMapper) JournalToEntity(j *model.JournalEntry) *entity.JournalEntry {
	if j == nil {
		return nil
	}
	return &entity.JournalEntry{
		Id:        j.Id,
		UserId:    j.UserId,
		Content:   j.Content,
		MoodScore: j.MoodScore,
		CreatedAt: j.CreatedAt,
	}
}

func (m *WellnessMapper) UrgeLogToModel(u *entity.UrgeLog) *model.UrgeLog {
	if u == nil {
		return nil
	}
	return &model.UrgeLog{
		Id:        u.Id,
		UserId:    u.UserId,
		Intensity: u.Intensity,
		Trigger:   u.Trigger,
		CreatedAt: u.CreatedAt,
	}
}

func (m *WellnessMapper) ProfileToEntity(p *model.RecoveryProfile) *entity.RecoveryProfile {
	if p == nil {
		return nil
	}
	updatedAt := p.UpdatedAt
	return &entity.RecoveryProfile{
		UserId:       p.UserId,
		SobrietyDate: p.SobrietyDate,
		UpdatedAt:    &updatedAt,
	}
}
