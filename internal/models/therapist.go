package models

import (
	"time"

	"gorm.io/datatypes"
)

// Therapist is a care provider that sessions reference by foreign key.
type Therapist struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Profile   datatypes.JSONMap `gorm:"type:jsonb" json:"profile,omitempty"`
	CreatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoUpdateTime" json:"updatedAt"`
}

func (Therapist) TableName() string { return "therapists" }
