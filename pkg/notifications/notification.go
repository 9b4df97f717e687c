package notifications

import (
	"time"
)

// Type is the notification severity.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

// Action is a call-to-action button. An empty URL means the button only
// dismisses the notification.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
	Style string `json:"style"` // primary, secondary, danger
}

// Notification is a message shown to a single user.
type Notification struct {
	ID       string         `json:"id"`
	UserID   string         `json:"user_id"`
	Type     Type           `json:"type"`
	Priority Priority       `json:"priority"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	Actions  []Action       `json:"actions,omitempty"`

	// Duration is how long a toast stays visible. Zero keeps it until dismissed.
	Duration    time.Duration `json:"duration"`
	Dismissible bool          `json:"dismissible"`

	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IsPersistent reports whether the toast stays until the user dismisses it.
func (n *Notification) IsPersistent() bool {
	return n.Duration <= 0
}

// ExpiredAt reports whether the notification has expired by now.
func (n *Notification) ExpiredAt(now time.Time) bool {
	return n.ExpiresAt != nil && !now.Before(*n.ExpiresAt)
}

func (n *Notification) MarkAsRead() {
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}
