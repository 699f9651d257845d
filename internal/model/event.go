package model

// Event is the root aggregate: one occasion being tracked for attendance.
// Categories, attendees, and totals all belong to an event.
type Event struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}
