package views

import "time"

// DefaultWindow is how long a visitor's view is considered a duplicate.
const DefaultWindow = 24 * time.Hour

// BlogView is a point-in-time copy of a slug's counter.
type BlogView struct {
	Slug           string    `json:"slug"`
	Count          int64     `json:"count"`
	LastViewed     time.Time `json:"lastViewed"`
	UniqueVisitors int       `json:"uniqueVisitors"`
}
