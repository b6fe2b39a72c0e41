package models

// MenuItem is a read-only menu entry.
type MenuItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image,omitempty"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}
