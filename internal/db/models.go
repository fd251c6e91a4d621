package db

import "time"

// Slot is one key/value row in the slots table
type Slot struct {
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Size returns the stored value length in bytes
func (s Slot) Size() int {
	return len(s.Value)
}
