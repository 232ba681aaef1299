package models

import "time"

// CookState is the lifecycle position of a cook in the active set.
type CookState string

const (
	StateUnstarted CookState = "UNSTARTED"
	StateRunning   CookState = "RUNNING"
	StateEnded     CookState = "ENDED"
	StateSaved     CookState = "SAVED"
	StateCancelled CookState = "CANCELLED"
)

// Cook is one cooking job tracked by a station until it is saved or cancelled.
type Cook struct {
	ID        int64      `json:"id"`
	Food      string     `json:"food"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  string     `json:"duration,omitempty"` // minutes, one decimal
	Temp      string     `json:"temp"`               // raw text, validated on save
	Trays     string     `json:"trays"`              // raw text, validated on save
	State     CookState  `json:"state"`
}

// Started reports whether the timer has been started.
func (c Cook) Started() bool { return c.StartTime != nil }

// Ended reports whether the timer has been stopped.
func (c Cook) Ended() bool { return c.EndTime != nil }

// CookView is a cook plus its elapsed-time display text.
type CookView struct {
	Cook
	Display string `json:"display"`
}

// ElapsedView is one entry of an elapsed-time tick.
type ElapsedView struct {
	ID      int64  `json:"id"`
	Food    string `json:"food"`
	Seconds int64  `json:"seconds"`
	Display string `json:"display"` // MM:SS
}
