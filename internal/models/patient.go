package models

import (
	"time"

	"gorm.io/datatypes"
)

// Patient is a care recipient that sessions reference by foreign key.
type Patient struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Profile   datatypes.JSONMap `gorm:"type:jsonb" json:"profile,omitempty"`
	CreatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoUpdateTime" json:"updatedAt"`
}

func (Patient) TableName() string { return "patients" }
