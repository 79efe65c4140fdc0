package types

// Page wraps a list payload with the cursor of the next page, when one exists.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
}
