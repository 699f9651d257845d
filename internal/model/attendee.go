package model

// Attendee is a person registered to an event, optionally assigned to a
// category, with a present/absent flag. A nil Category is the valid
// "No Category" state.
type Attendee struct {
	ID        string       `json:"id"`
	EventID   string       `json:"-"`
	Name      string       `json:"name"`
	Category  *CategoryRef `json:"category,omitempty"`
	Present   bool         `json:"present"`
	CreatedAt int64        `json:"createdAt"`
}
