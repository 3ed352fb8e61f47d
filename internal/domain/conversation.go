package domain

import "time"

// Conversation is one processed message and the reply sent back.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	Body      string    `json:"body"`
	Response  string    `json:"response"`
	Intent    Domain    `json:"intent" gorm:"index"`
	Slots     string    `json:"slots,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// Preferences is what the assistant has learned about a user from history.
type Preferences struct {
	Services  map[Domain]int `json:"services"`
	MostUsed  Domain         `json:"most_used,omitempty"`
	PeakHours []int          `json:"peak_hours"`
	Locations []string       `json:"locations,omitempty"`
	Topics    []string       `json:"topics,omitempty"`
}
