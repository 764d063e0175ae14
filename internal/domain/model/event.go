// Package model contains domain models passed between layers.
package model

import "time"

// EventType categorizes a calendar event and drives its display color.
type EventType string

const (
	EventPractice EventType = "practice"
	EventGame     EventType = "game"
	EventMeeting  EventType = "meeting"
	EventOther    EventType = "other"
)

// Valid reports whether the type is one of the known categories.
func (t EventType) Valid() bool {
	switch t {
	case EventPractice, EventGame, EventMeeting, EventOther:
		return true
	}
	return false
}

// Color returns the display color clients use for this event type.
func (t EventType) Color() string {
	switch t {
	case EventPractice:
		return "blue"
	case EventGame:
		return "red"
	default:
		return "gray"
	}
}

// Event is a calendar entry: a practice, game, meeting or other activity.
type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	Type        EventType    `json:"type"`
	Location    string       `json:"location,omitempty"`
	Description string       `json:"description,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Attachment references an uploaded file attached to an event. The core
// passes these through untouched; only the blob store interprets them.
type Attachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}
