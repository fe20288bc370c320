package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubjectId string    `gorm:"type:varchar(255);uniqueIndex;not null;column:subject_id"`
	Email     string    `gorm:"type:varchar(255);index;not null"`
	FirstName string    `gorm:"type:varchar(255)"`
	LastName  string    `gorm:"type:varchar(255)"`
	AvatarURL *string   `gorm:"type:text"`
	Role      string    `gorm:"type:varchar(50);not null;default:'user'"`
	Balance   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
