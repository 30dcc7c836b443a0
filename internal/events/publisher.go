package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"caredash/internal/models"
)

const sessionStatusTopic = "caredash.sessions.status"

// Publisher emits session lifecycle events to NATS. A nil Publisher is a
// valid no-op, so callers never need to guard on configuration.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the NATS endpoint at url.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("caredash"))
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: nc}, nil
}

// Close drains and shuts down the underlying connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// SessionStatusChanged publishes a status transition event. Publishing is
// best-effort; the returned error is for logging only and must never affect
// the HTTP response.
func (p *Publisher) SessionStatusChanged(session models.FlatSession) error {
	if p == nil || p.conn == nil {
		return nil
	}

	payload := map[string]any{
		"event_id":       uuid.New(),
		"session_id":     session.ID,
		"status":         session.Status,
		"therapist_name": session.TherapistName,
		"patient_name":   session.PatientName,
		"occurred_at":    time.Now().UTC(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.conn.Publish(sessionStatusTopic, data)
}
