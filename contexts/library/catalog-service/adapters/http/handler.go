package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"athenaeum/contexts/library/catalog-service/application"
	"athenaeum/contexts/library/catalog-service/domain/entities"
	httptransport "athenaeum/contexts/library/catalog-service/transport/http"
	"athenaeum/internal/shared/principal"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListResourcesHandler(ctx context.Context, input application.ListResourcesInput) (httptransport.ListResourcesResponse, error) {
	result, err := h.Service.ListResources(ctx, input)
	if err != nil {
		return httptransport.ListResourcesResponse{}, err
	}
	resp := httptransport.ListResourcesResponse{
		Success:    true,
		Resources:  make([]httptransport.ResourcePayload, 0, len(result.Items)),
		NextCursor: result.NextCursor,
	}
	for _, resource := range result.Items {
		resp.Resources = append(resp.Resources, resourcePayload(resource))
	}
	return resp, nil
}

func (h Handler) GetResourceHandler(ctx context.Context, p principal.Principal, resourceID string) (httptransport.ResourceDetailResponse, error) {
	detail, err := h.Service.GetResource(ctx, p, resourceID)
	if err != nil {
		return httptransport.ResourceDetailResponse{}, err
	}
	resp := httptransport.ResourceDetailResponse{
		Success:    true,
		Resource:   resourcePayload(detail.Resource),
		Ratings:    make([]httptransport.RatingPayload, 0, len(detail.Ratings)),
		Bookmarked: detail.Bookmarked,
		CanEdit:    detail.CanEdit,
		CanDelete:  detail.CanDelete,
	}
	for _, rating := range detail.Ratings {
		resp.Ratings = append(resp.Ratings, ratingPayload(rating))
	}
	return resp, nil
}

func (h Handler) CreateResourceHandler(ctx context.Context, p principal.Principal, req httptransport.CreateResourceRequest) (httptransport.ResourceResponse, error) {
	resource, err := h.Service.CreateResource(ctx, p, application.CreateResourceInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		URL:         req.URL,
		TopicIDs:    req.TopicIDs,
	})
	if err != nil {
		return httptransport.ResourceResponse{}, err
	}
	return httptransport.ResourceResponse{Success: true, Resource: resourcePayload(resource)}, nil
}

func (h Handler) UpdateResourceHandler(
	ctx context.Context,
	p principal.Principal,
	resourceID string,
	req httptransport.UpdateResourceRequest,
) (httptransport.ResourceResponse, error) {
	resource, err := h.Service.UpdateResource(ctx, p, resourceID, application.UpdateResourceInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		URL:         req.URL,
		TopicIDs:    req.TopicIDs,
		AuthorID:    req.AuthorID,
	})
	if err != nil {
		return httptransport.ResourceResponse{}, err
	}
	return httptransport.ResourceResponse{Success: true, Resource: resourcePayload(resource)}, nil
}

func (h Handler) DeleteResourceHandler(ctx context.Context, p principal.Principal, resourceID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteResource(ctx, p, resourceID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Success: true}, nil
}

func (h Handler) RateResourceHandler(
	ctx context.Context,
	p principal.Principal,
	resourceID string,
	req httptransport.RateResourceRequest,
) (httptransport.RatingResponse, error) {
	rating, err := h.Service.RateResource(ctx, p, resourceID, req.Score, req.Comment)
	if err != nil {
		return httptransport.RatingResponse{}, err
	}
	return httptransport.RatingResponse{Success: true, Rating: ratingPayload(rating)}, nil
}

func (h Handler) ToggleBookmarkHandler(ctx context.Context, p principal.Principal, resourceID string) (httptransport.BookmarkResponse, error) {
	bookmarked, err := h.Service.ToggleBookmark(ctx, p, resourceID)
	if err != nil {
		return httptransport.BookmarkResponse{}, err
	}
	return httptransport.BookmarkResponse{Success: true, Bookmarked: bookmarked}, nil
}

func (h Handler) UpdateReviewHandler(
	ctx context.Context,
	p principal.Principal,
	ratingID string,
	req httptransport.UpdateReviewRequest,
) (httptransport.RatingResponse, error) {
	rating, err := h.Service.UpdateReview(ctx, p, ratingID, req.Score, req.Comment)
	if err != nil {
		return httptransport.RatingResponse{}, err
	}
	return httptransport.RatingResponse{Success: true, Rating: ratingPayload(rating)}, nil
}

func (h Handler) DeleteReviewHandler(ctx context.Context, p principal.Principal, ratingID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteReview(ctx, p, ratingID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Success: true}, nil
}

func (h Handler) ListTopicsHandler(ctx context.Context) (httptransport.TopicsResponse, error) {
	topics, err := h.Service.ListTopics(ctx)
	if err != nil {
		return httptransport.TopicsResponse{}, err
	}
	resp := httptransport.TopicsResponse{
		Success: true,
		Topics:  make([]httptransport.TopicPayload, 0, len(topics)),
	}
	for _, topic := range topics {
		resp.Topics = append(resp.Topics, topicPayload(topic))
	}
	return resp, nil
}

func (h Handler) TopicDetailHandler(ctx context.Context, topicID string) (httptransport.TopicDetailResponse, error) {
	topic, counts, err := h.Service.TopicDetail(ctx, topicID)
	if err != nil {
		return httptransport.TopicDetailResponse{}, err
	}
	resp := httptransport.TopicDetailResponse{
		Success:        true,
		Topic:          topicPayload(topic),
		ResourceCounts: make(map[string]int, len(counts)),
	}
	for resourceType, total := range counts {
		resp.ResourceCounts[string(resourceType)] = total
		resp.TotalResources += total
	}
	return resp, nil
}

func (h Handler) CreateTopicHandler(ctx context.Context, p principal.Principal, req httptransport.TopicRequest) (httptransport.TopicResponse, error) {
	topic, err := h.Service.CreateTopic(ctx, p, application.TopicInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return httptransport.TopicResponse{}, err
	}
	return httptransport.TopicResponse{Success: true, Topic: topicPayload(topic)}, nil
}

func (h Handler) UpdateTopicHandler(
	ctx context.Context,
	p principal.Principal,
	topicID string,
	req httptransport.TopicRequest,
) (httptransport.TopicResponse, error) {
	topic, err := h.Service.UpdateTopic(ctx, p, topicID, application.TopicInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return httptransport.TopicResponse{}, err
	}
	return httptransport.TopicResponse{Success: true, Topic: topicPayload(topic)}, nil
}

func (h Handler) DeleteTopicHandler(ctx context.Context, p principal.Principal, topicID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteTopic(ctx, p, topicID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Success: true}, nil
}

func resourcePayload(resource entities.Resource) httptransport.ResourcePayload {
	topicIDs := resource.TopicIDs
	if topicIDs == nil {
		topicIDs = []string{}
	}
	return httptransport.ResourcePayload{
		ID:            resource.ResourceID,
		Title:         resource.Title,
		Description:   resource.Description,
		Type:          string(resource.Type),
		URL:           resource.URL,
		AuthorID:      resource.AuthorID,
		TopicIDs:      topicIDs,
		AverageRating: resource.AverageRating(),
		RatingCount:   resource.RatingCount,
		CreatedAt:     resource.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     resource.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ratingPayload(rating entities.Rating) httptransport.RatingPayload {
	return httptransport.RatingPayload{
		ID:         rating.RatingID,
		ResourceID: rating.ResourceID,
		AccountID:  rating.AccountID,
		Score:      rating.Score,
		Comment:    rating.Comment,
		CreatedAt:  rating.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  rating.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func topicPayload(topic entities.Topic) httptransport.TopicPayload {
	return httptransport.TopicPayload{
		ID:          topic.TopicID,
		Name:        topic.Name,
		Description: topic.Description,
		Color:       topic.Color,
		CreatedAt:   topic.CreatedAt.UTC().Format(time.RFC3339),
	}
}
