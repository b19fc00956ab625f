package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification the way the admin UI renders toasts.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultDuration is how long a toast stays on screen unless overridden.
const DefaultDuration = 4 * time.Second

// Notification is a single non-blocking, dismissible message shown to the
// reviewing admin. Failures of any operation degrade to one of these; they
// never propagate further.
type Notification struct {
	ID        uuid.UUID     `json:"id"`
	Level     Level         `json:"level"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
	Dismissed bool          `json:"dismissed"`
}
