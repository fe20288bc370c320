package mapper

import (
	"encoding/json"

	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/model"

	"gorm.io/datatypes"
)

type SystemLogMapper struct{}

func NewSystemLogMapper() *SystemLogMapper {
	return &SystemLogMapper{}
}

func (m *SystemLogMapper) ToEntity(l *model.SystemLog) *entity.SystemLog {
	if l == nil {
		return nil
	}
	details := map[string]interface{}{}
	if len(l.Details) > 0 {
		// Details is operator-facing; a decode failure is not worth
		// dropping the row over.
		_ = json.Unmarshal(l.Details, &details)
	}
	return &entity.SystemLog{
		Id:        l.Id,
		Level:     l.Level,
		Module:    l.Module,
		Message:   l.Message,
		Details:   details,
		CreatedAt: l.CreatedAt,
	}
}

func (m *SystemLogMapper) ToModel(l *entity.SystemLog) *model.SystemLog {
	if l == nil {
		return nil
	}
	var details datatypes.JSON
	if l.Details != nil {
		if raw, err := json.Marshal(l.Details); err == nil {
			details = raw
		}
	}
	return &model.SystemLog{
		Id:        l.Id,
		Level:     l.Level,
		Module:    l.Module,
		Message:   l.Message,
		Details:   details,
		CreatedAt: l.CreatedAt,
	}
}

func (m *SystemLogMapper) ToEntities(logs []*model.SystemLog) []*entity.SystemLog {
	entities := make([]*entity.SystemLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
