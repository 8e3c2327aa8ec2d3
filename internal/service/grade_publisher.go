package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// GradeChangedEvent is broadcast whenever a recompute moves an enrollment to a new letter grade.
type GradeChangedEvent struct {
	EventID       string    `json:"event_id"`
	StudentID     string    `json:"uid"`
	ClassID       uint      `json:"class_id"`
	PreviousGrade string    `json:"previous_grade"`
	Grade         string    `json:"grade"`
	Percent       float64   `json:"percent"`
	Trigger       string    `json:"trigger"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// GradePublisher fans grade changes out to downstream consumers.
type GradePublisher interface {
	Publish(ctx context.Context, event GradeChangedEvent) error
}

type natsGradePublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSGradePublisher publishes on <subject>.<uid>. A nil connection yields a nil publisher.
func NewNATSGradePublisher(conn *nats.Conn, subject string) GradePublisher {
	if conn == nil {
		return nil
	}
	subject = strings.Trim(strings.TrimSpace(subject), ".")
	if subject == "" {
		subject = "gema.grades"
	}
	return &natsGradePublisher{conn: conn, subject: subject}
}

func (p *natsGradePublisher) Publish(_ context.Context, event GradeChangedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.conn.Publish(p.subject+"."+event.StudentID, payload)
}
