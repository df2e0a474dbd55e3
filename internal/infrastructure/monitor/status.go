package monitor

import "time"

// Status is the last connectivity snapshot for the document store and the write buffer.
type Status struct {
	Driver     string    `json:"driver"`
	Store      bool      `json:"store"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// AcceptsWrites reports whether a write can land somewhere: the primary store, or the local
// buffer while the primary is down.
func (s Status) AcceptsWrites() bool {
	return s.Store || s.Buffer
}

// Pending reports writes still waiting for replay.
func (s Status) Pending() bool {
	return s.BufferSize > 0
}
