package model

import (
	"time"

	"github.com/google/uuid"
)

type Activation struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activations_user_activation,priority:1;index"`
	ActivationId string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_activations_user_activation,priority:2"`
	PhoneNumber  string    `gorm:"type:varchar(32);not null"`
	Service      string    `gorm:"type:varchar(16);not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	SmsCode      *string   `gorm:"type:varchar(32)"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Activation) TableName() string {
	return "phone_activations"
}
