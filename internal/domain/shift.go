package domain

import "time"

type ShiftStatus string

const (
	ShiftWorking ShiftStatus = "working"
	ShiftOff     ShiftStatus = "off"
)

// Shift is a work shift or a day off held in the shifts table.
// Status is empty when the stored record has no status field.
type Shift struct {
	ID        string      `json:"id"`
	RecordID  string      `json:"record_id,omitempty"`
	Date      time.Time   `json:"date"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Status    ShiftStatus `json:"status,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Overnight bool        `json:"overnight,omitempty"`
	EndDate   time.Time   `json:"end_date,omitempty"`
}

// IsDayOff reports whether the shift marks a whole day off.
func (s Shift) IsDayOff() bool {
	return s.Status == ShiftOff
}
