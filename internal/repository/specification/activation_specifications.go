package specification

import "gorm.io/gorm"

// ByActivationId filters by the provider-assigned activation id
type ByActivationId struct {
	ActivationId string
}

func (s ByActivationId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("activation_id = ?", s.ActivationId)
}

// ActiveOnly keeps non-terminal activations
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
