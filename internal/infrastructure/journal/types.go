package journal

import "time"

const (
	KindProfileMismatch = "profile_mismatch"
	KindIrreconcilable  = "irreconcilable_profile"
)

// Entry is a single journaled divergence outcome.
type Entry struct {
	UserID string    `json:"user_id"`
	Kind   string    `json:"kind"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

func (e *Entry) normalize() {
	if e.At.IsZero() {
		e.At = time.Now()
	}
}
