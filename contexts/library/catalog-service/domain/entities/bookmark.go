package entities

import "time"

// Bookmark marks a resource saved by an account; the pair is unique and a
// second save removes it.
type Bookmark struct {
	ResourceID string
	AccountID  string
	CreatedAt  time.Time
}
