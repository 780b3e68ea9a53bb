package message

import (
	"fmt"
	"time"
)

// Message is a short text entry held in a day bucket. ID is unique only
// within the bucket it was created in.
type Message struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BucketKey returns the day-bucket cache key for now, formatted as
// day_month_year without zero padding (19_10_2026).
func BucketKey(now time.Time) string {
	return fmt.Sprintf("%d_%d_%d", now.Day(), int(now.Month()), now.Year())
}
