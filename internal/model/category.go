package model

// Category is a named grouping attendees are assigned to within an event.
type Category struct {
	ID        string `json:"id"`
	EventID   string `json:"-"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// CategoryRef is the denormalized copy of a category embedded on an
// attendee at assignment time. It is a snapshot, not a live reference:
// renaming the category does not update existing refs, and deleting it
// leaves refs dangling until reconciliation clears them.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
