package domain

import "time"

type ChangeEventType string

const (
	EventInsert ChangeEventType = "INSERT"
	EventUpdate ChangeEventType = "UPDATE"
	EventDelete ChangeEventType = "DELETE"
)

// ChangeEvent is one mutation of a canvas's media collection. Delete events
// carry only the identifying fields of the removed object.
type ChangeEvent struct {
	Type      ChangeEventType `json:"type"`
	CanvasID  CanvasID        `json:"canvas_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      *MediaObject    `json:"data,omitempty"`
}
