package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

// The migration carries its own copies of the models so later schema changes
// to the live structs cannot rewrite history.

type Therapist struct {
	ID        int64             `gorm:"primaryKey;autoIncrement"`
	Name      string            `gorm:"type:text;not null"`
	Profile   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type Patient struct {
	ID        int64             `gorm:"primaryKey;autoIncrement"`
	Name      string            `gorm:"type:text;not null"`
	Profile   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type Session struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Date        time.Time `gorm:"type:timestamptz;not null;index"`
	Status      string    `gorm:"type:text;not null;default:'Scheduled'"`
	TherapistID int64     `gorm:"not null;index"`
	PatientID   int64     `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
	Therapist   Therapist `gorm:"foreignKey:TherapistID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Patient     Patient   `gorm:"foreignKey:PatientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&Therapist{},
		&Patient{},
		&Session{},
	); err != nil {
		return err
	}

	m := gormDB.WithContext(ctx).Migrator()
	if err := m.CreateConstraint(&Session{}, "Therapist"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&Session{}, "Patient"); err != nil {
		return err
	}

	return nil
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Migrator().DropTable(
		&Session{},
		&Patient{},
		&Therapist{},
	); err != nil {
		return err
	}

	return nil
}
