package models

import "time"

// Session statuses. The service only ever moves a session forward to
// Completed; Scheduled is the creation default.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
)

// ValidStatus reports whether s is one of the two accepted status values.
func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusCompleted
}

// Session is a therapy appointment linking one therapist and one patient
// at a point in time.
type Session struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date        time.Time `gorm:"type:timestamptz;not null;index" json:"date"`
	Status      string    `gorm:"type:text;not null;default:'Scheduled'" json:"status"`
	TherapistID int64     `gorm:"not null;index" json:"therapistId"`
	PatientID   int64     `gorm:"not null;index" json:"patientId"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime" json:"updatedAt"`

	Therapist Therapist `gorm:"foreignKey:TherapistID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Patient   Patient   `gorm:"foreignKey:PatientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Session) TableName() string { return "sessions" }

// FlatSession is the wire representation of a session: the related names are
// duplicated at the top level for display alongside the nested records.
type FlatSession struct {
	ID            int64     `json:"id"`
	TherapistName string    `json:"therapistName"`
	PatientName   string    `json:"patientName"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Therapist     Therapist `json:"therapist"`
	Patient       Patient   `json:"patient"`
}

// Flatten builds the wire shape from a session with its relations loaded.
func (s Session) Flatten() FlatSession {
	return FlatSession{
		ID:            s.ID,
		TherapistName: s.Therapist.Name,
		PatientName:   s.Patient.Name,
		Date:          s.Date,
		Status:        s.Status,
		Therapist:     s.Therapist,
		Patient:       s.Patient,
	}
}

// FlattenAll maps sessions into their wire shape, preserving order. The
// result is never nil so an empty list encodes as a JSON array.
func FlattenAll(sessions []Session) []FlatSession {
	flat := make([]FlatSession, 0, len(sessions))
	for _, s := range sessions {
		flat = append(flat, s.Flatten())
	}
	return flat
}
