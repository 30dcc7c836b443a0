package db

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"caredash/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

type fixture struct {
	Therapists []struct {
		Name string `yaml:"name"`
	} `yaml:"therapists"`
	Patients []struct {
		Name string `yaml:"name"`
	} `yaml:"patients"`
	Sessions []struct {
		Therapist string    `yaml:"therapist"`
		Patient   string    `yaml:"patient"`
		Date      time.Time `yaml:"date"`
		Status    string    `yaml:"status"`
	} `yaml:"sessions"`
}

func parseFixture(data []byte) (fixture, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return fixture{}, fmt.Errorf("parse seed fixture: %w", err)
	}
	for i, s := range fx.Sessions {
		if s.Status == "" {
			fx.Sessions[i].Status = models.StatusScheduled
		}
		if !models.ValidStatus(fx.Sessions[i].Status) {
			return fixture{}, fmt.Errorf("seed session %d: invalid status %q", i, s.Status)
		}
		if s.Therapist == "" || s.Patient == "" {
			return fixture{}, fmt.Errorf("seed session %d: therapist and patient are required", i)
		}
	}
	return fx, nil
}

// Seed inserts baseline therapists, patients, and sessions from a YAML
// fixture. An empty path uses the embedded default data set. Seeding is
// idempotent: existing rows are left untouched.
func Seed(ctx context.Context, database *gorm.DB, path string) error {
	data := defaultSeed
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		data = fileData
	}

	fx, err := parseFixture(data)
	if err != nil {
		return err
	}

	therapists := map[string]int64{}
	for _, t := range fx.Therapists {
		row := models.Therapist{Name: t.Name}
		if err := database.WithContext(ctx).
			Where(models.Therapist{Name: t.Name}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
		therapists[t.Name] = row.ID
	}

	patients := map[string]int64{}
	for _, p := range fx.Patients {
		row := models.Patient{Name: p.Name}
		if err := database.WithContext(ctx).
			Where(models.Patient{Name: p.Name}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
		patients[p.Name] = row.ID
	}

	for i, s := range fx.Sessions {
		therapistID, ok := therapists[s.Therapist]
		if !ok {
			return fmt.Errorf("seed session %d: unknown therapist %q", i, s.Therapist)
		}
		patientID, ok := patients[s.Patient]
		if !ok {
			return fmt.Errorf("seed session %d: unknown patient %q", i, s.Patient)
		}

		row := models.Session{
			TherapistID: therapistID,
			PatientID:   patientID,
			Date:        s.Date,
		}
		if err := database.WithContext(ctx).
			Where(models.Session{TherapistID: therapistID, PatientID: patientID, Date: s.Date}).
			Attrs(models.Session{Status: s.Status}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	return nil
}
