package entities

import "time"

type ResourceType string

const (
	ResourceTypePDF          ResourceType = "pdf"
	ResourceTypeVideo        ResourceType = "video"
	ResourceTypeLink         ResourceType = "link"
	ResourceTypeNote         ResourceType = "note"
	ResourceTypePresentation ResourceType = "presentation"
	ResourceTypeBook         ResourceType = "book"
)

func IsValidResourceType(value ResourceType) bool {
	switch value {
	case ResourceTypePDF, ResourceTypeVideo, ResourceTypeLink,
		ResourceTypeNote, ResourceTypePresentation, ResourceTypeBook:
		return true
	default:
		return false
	}
}

// Resource is a library item. RatingTotal/RatingCount are maintained
// transactionally by the rating operations so the average never needs a
// scan.
type Resource struct {
	ResourceID  string
	Title       string
	Description string
	Type        ResourceType
	URL         string
	AuthorID    string
	TopicIDs    []string
	RatingTotal int
	RatingCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AverageRating is 0 when the resource has no ratings.
func (r Resource) AverageRating() float64 {
	if r.RatingCount == 0 {
		return 0
	}
	return float64(r.RatingTotal) / float64(r.RatingCount)
}
