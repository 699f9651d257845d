package model

// Total is a named aggregate summing present-counts across a chosen set of
// categories, referenced by id.
type Total struct {
	ID         string   `json:"id"`
	EventID    string   `json:"-"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	CreatedAt  int64    `json:"createdAt"`
}
