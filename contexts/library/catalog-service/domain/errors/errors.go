package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidResourceType = errors.New("invalid resource type")
	ErrInvalidRatingScore  = errors.New("rating score must be between 1 and 5")
	ErrInvalidListFilter   = errors.New("invalid list filter")

	ErrResourceNotFound = errors.New("resource not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrRatingNotFound   = errors.New("review not found")

	ErrTopicNameTaken = errors.New("topic name already exists")

	ErrPermissionDenied = errors.New("permission denied")
)
