package model

import (
	"strings"
	"time"
)

// Announcement is the single site-wide banner text, stored as one
// settings document and toggled on or off by admins.
type Announcement struct {
	Text      string    `json:"text"`
	Visible   bool      `json:"isVisible"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Shown reports whether the banner should be rendered: it must be
// visible and carry non-blank text.
func (a Announcement) Shown() bool {
	return a.Visible && strings.TrimSpace(a.Text) != ""
}
