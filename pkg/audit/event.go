// Package audit records configuration-changing operations in a local
// JSON-lines trail.
package audit

import (
	"fmt"
	"time"
)

// Operation names recorded in audit events.
const (
	OpCheck  = "config.check"
	OpCommit = "config.commit"
	OpAbort  = "config.abort"
)

// Event is one recorded operation against a device.
type Event struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	User       string        `json:"user"`
	Device     string        `json:"device"`
	Operation  string        `json:"operation"`
	Session    string        `json:"session,omitempty"`
	ConfigFile string        `json:"config_file,omitempty"`
	Diff       string        `json:"diff,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Device      string
	User        string
	Operation   string
	Session     string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates an audit event stamped with the current time.
func NewEvent(user, device, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Device:    device,
		Operation: operation,
	}
}

// WithSession records the config session the operation ran in.
func (e *Event) WithSession(name string) *Event {
	e.Session = name
	return e
}

// WithConfigFile records the candidate config file involved.
func (e *Event) WithConfigFile(path string) *Event {
	e.ConfigFile = path
	return e
}

// WithDiff records the device-rendered diff the operation produced.
func (e *Event) WithDiff(diff string) *Event {
	e.Diff = diff
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
