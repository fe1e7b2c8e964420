package domain

// Category represents a user-defined grouping for tasks. The color is an
// opaque display hint; the store only requires it to be non-empty.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
