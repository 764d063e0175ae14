package model

import "time"

// ContactStatus tracks the handling state of a contact message.
type ContactStatus string

const (
	ContactUnread  ContactStatus = "unread"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

// Valid reports whether the status is one of the known states.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactUnread, ContactRead, ContactReplied:
		return true
	}
	return false
}

// ContactMessage is a public contact form submission.
type ContactMessage struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
