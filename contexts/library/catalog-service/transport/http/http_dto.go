package httptransport

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type ResourcePayload struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Type          string   `json:"type"`
	URL           string   `json:"url"`
	AuthorID      string   `json:"author_id"`
	TopicIDs      []string `json:"topic_ids"`
	AverageRating float64  `json:"average_rating"`
	RatingCount   int      `json:"rating_count"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type RatingPayload struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	AccountID  string `json:"account_id"`
	Score      int    `json:"score"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type TopicPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type ListResourcesResponse struct {
	Success    bool              `json:"success"`
	Resources  []ResourcePayload `json:"resources"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// ResourceDetailResponse carries the caller-specific view: bookmark state
// and capability flags alongside the resource and its reviews.
type ResourceDetailResponse struct {
	Success    bool            `json:"success"`
	Resource   ResourcePayload `json:"resource"`
	Ratings    []RatingPayload `json:"ratings"`
	Bookmarked bool            `json:"bookmarked"`
	CanEdit    bool            `json:"can_edit"`
	CanDelete  bool            `json:"can_delete"`
}

type CreateResourceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	URL         string   `json:"url"`
	TopicIDs    []string `json:"topic_ids"`
}

type UpdateResourceRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Type        *string   `json:"type,omitempty"`
	URL         *string   `json:"url,omitempty"`
	TopicIDs    *[]string `json:"topic_ids,omitempty"`
	AuthorID    *string   `json:"author_id,omitempty"`
}

type ResourceResponse struct {
	Success  bool            `json:"success"`
	Resource ResourcePayload `json:"resource"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type RateResourceRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type RatingResponse struct {
	Success bool          `json:"success"`
	Rating  RatingPayload `json:"rating"`
}

type UpdateReviewRequest struct {
	Score   *int    `json:"score,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

type BookmarkResponse struct {
	Success    bool `json:"success"`
	Bookmarked bool `json:"bookmarked"`
}

type TopicsResponse struct {
	Success bool           `json:"success"`
	Topics  []TopicPayload `json:"topics"`
}

type TopicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type TopicResponse struct {
	Success bool         `json:"success"`
	Topic   TopicPayload `json:"topic"`
}

// TopicDetailResponse adds per-type resource counts to the topic.
type TopicDetailResponse struct {
	Success        bool           `json:"success"`
	Topic          TopicPayload   `json:"topic"`
	ResourceCounts map[string]int `json:"resource_counts"`
	TotalResources int            `json:"total_resources"`
}
