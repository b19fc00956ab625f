package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Center collects the notifications for one admin session and hands each new
// one to an optional publisher (the websocket hub). History is bounded; the
// oldest entries fall off first.
type Center struct {
	mu      sync.Mutex
	history []Notification
	limit   int
	publish func(Notification)
}

// NewCenter creates a notification center keeping at most limit entries.
func NewCenter(limit int) *Center {
	if limit <= 0 {
		limit = 50
	}
	return &Center{limit: limit}
}

// SetPublisher registers a callback invoked for every pushed notification.
func (c *Center) SetPublisher(fn func(Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publish = fn
}

// Success pushes a success toast with the default duration.
func (c *Center) Success(message string) Notification {
	return c.Push(LevelSuccess, message, DefaultDuration)
}

// SuccessFor pushes a success toast that stays visible for the given duration.
func (c *Center) SuccessFor(message string, d time.Duration) Notification {
	return c.Push(LevelSuccess, message, d)
}

// Error pushes an error toast.
func (c *Center) Error(message string) Notification {
	return c.Push(LevelError, message, DefaultDuration)
}

// Info pushes an informational toast.
func (c *Center) Info(message string) Notification {
	return c.Push(LevelInfo, message, DefaultDuration)
}

// Push records a notification and forwards it to the publisher.
func (c *Center) Push(level Level, message string, d time.Duration) Notification {
	n := Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		Duration:  d,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.history = append(c.history, n)
	if len(c.history) > c.limit {
		c.history = c.history[len(c.history)-c.limit:]
	}
	publish := c.publish
	c.mu.Unlock()

	if publish != nil {
		publish(n)
	}
	return n
}

// Dismiss marks a notification dismissed. Returns false for unknown ids.
func (c *Center) Dismiss(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.history {
		if c.history[i].ID == id {
			c.history[i].Dismissed = true
			return true
		}
	}
	return false
}

// List returns a copy of the history, oldest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.history))
	copy(out, c.history)
	return out
}
