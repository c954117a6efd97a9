package models

// Tag is a free-standing label that can be attached to files.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category owns a closed set of permitted values.
type Category struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values,omitempty"`
}

// CategoryValue is one permitted value of exactly one category.
type CategoryValue struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Value      string `json:"value"`
}
