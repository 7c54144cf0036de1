package entities

import "time"

// Topic is a curated subject label. Names are unique case-insensitively.
type Topic struct {
	TopicID     string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}
