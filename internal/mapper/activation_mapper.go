package mapper

import (
	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/model"
)

type ActivationMapper struct{}

func NewActivationMapper() *ActivationMapper {
	return &ActivationMapper{}
}

func (m *ActivationMapper) ToEntity(a *model.Activation) *entity.Activation {
	if a == nil {
		return nil
	}
	return &entity.Activation{
		Id:           a.Id,
		UserId:       a.UserId,
		ActivationId: a.ActivationId,
		PhoneNumber:  a.PhoneNumber,
		Service:      a.Service,
		Status:       entity.ActivationStatus(a.Status),
		SmsCode:      a.SmsCode,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *ActivationMapper) ToModel(a *entity.Activation) *model.Activation {
	if a == nil {
		return nil
	}
	return &model.Activation{
		Id:           a.Id,
		UserId:       a.UserId,
		ActivationId: a.ActivationId,
		PhoneNumber:  a.PhoneNumber,
		Service:      a.Service,
		Status:       string(a.Status),
		SmsCode:      a.SmsCode,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *ActivationMapper) ToEntities(activations []*model.Activation) []*entity.Activation {
	entities := make([]*entity.Activation, len(activations))
	for i, a := range activations {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
