package models

import "time"

// WellnessEntry defines the model for the 'wellness_entries' table
// (the LifeSync mood journal).
type WellnessEntry struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Mood      string    `json:"mood" db:"mood"` // e.g. 'great', 'good', 'okay', 'low', 'stressed'
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
