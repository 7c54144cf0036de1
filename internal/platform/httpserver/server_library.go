package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	catalogapp "athenaeum/contexts/library/catalog-service/application"
	catalogerrors "athenaeum/contexts/library/catalog-service/domain/errors"
	cataloghttp "athenaeum/contexts/library/catalog-service/transport/http"
)

func (s *Server) registerLibraryRoutes() {
	s.mux.HandleFunc("GET /api/library/v1/resources", s.handleListResources)
	s.mux.HandleFunc("POST /api/library/v1/resources", s.handleCreateResource)
	s.mux.HandleFunc("GET /api/library/v1/resources/{resource_id}", s.handleGetResource)
	s.mux.HandleFunc("POST /api/library/v1/resources/{resource_id}", s.handleUpdateResource)
	s.mux.HandleFunc("DELETE /api/library/v1/resources/{resource_id}", s.handleDeleteResource)
	s.mux.HandleFunc("POST /api/library/v1/resources/{resource_id}/rating", s.handleRateResource)
	s.mux.HandleFunc("POST /api/library/v1/resources/{resource_id}/bookmark", s.handleToggleBookmark)
	s.mux.HandleFunc("POST /api/library/v1/reviews/{rating_id}", s.handleUpdateReview)
	s.mux.HandleFunc("DELETE /api/library/v1/reviews/{rating_id}", s.handleDeleteReview)

	s.mux.HandleFunc("GET /api/library/v1/topics", s.handleListTopics)
	s.mux.HandleFunc("POST /api/library/v1/topics", s.handleCreateTopic)
	s.mux.HandleFunc("GET /api/library/v1/topics/{topic_id}", s.handleTopicDetail)
	s.mux.HandleFunc("POST /api/library/v1/topics/{topic_id}", s.handleUpdateTopic)
	s.mux.HandleFunc("DELETE /api/library/v1/topics/{topic_id}", s.handleDeleteTopic)
}

// handleListResources is public; the catalog reads the same for everyone.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	input := catalogapp.ListResourcesInput{
		Query:   query.Get("q"),
		Type:    query.Get("type"),
		TopicID: query.Get("topic"),
		Cursor:  query.Get("cursor"),
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		input.Limit = limit
	}

	resp, err := s.catalog.Handler.ListResourcesHandler(r.Context(), input)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetResource is public but principal-aware: the capability flags and
// bookmark state depend on who asks.
func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	p, err := s.resolvePrincipal(r)
	if err != nil {
		writeInternalError(w)
		return
	}

	resp, err := s.catalog.Handler.GetResourceHandler(r.Context(), p, r.PathValue("resource_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req cataloghttp.CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.CreateResourceHandler(r.Context(), p, req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req cataloghttp.UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.UpdateResourceHandler(r.Context(), p, r.PathValue("resource_id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	resp, err := s.catalog.Handler.DeleteResourceHandler(r.Context(), p, r.PathValue("resource_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRateResource(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req cataloghttp.RateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.RateResourceHandler(r.Context(), p, r.PathValue("resource_id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	resp, err := s.catalog.Handler.ToggleBookmarkHandler(r.Context(), p, r.PathValue("resource_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req cataloghttp.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.UpdateReviewHandler(r.Context(), p, r.PathValue("rating_id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	resp, err := s.catalog.Handler.DeleteReviewHandler(r.Context(), p, r.PathValue("rating_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListTopicsHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTopicDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.TopicDetailHandler(r.Context(), r.PathValue("topic_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req cataloghttp.TopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.CreateTopicHandler(r.Context(), p, req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req cataloghttp.TopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.UpdateTopicHandler(r.Context(), p, r.PathValue("topic_id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	resp, err := s.catalog.Handler.DeleteTopicHandler(r.Context(), p, r.PathValue("topic_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrInvalidRequest),
		errors.Is(err, catalogerrors.ErrInvalidResourceType),
		errors.Is(err, catalogerrors.ErrInvalidRatingScore),
		errors.Is(err, catalogerrors.ErrInvalidListFilter),
		errors.Is(err, catalogerrors.ErrTopicNameTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogerrors.ErrResourceNotFound),
		errors.Is(err, catalogerrors.ErrTopicNotFound),
		errors.Is(err, catalogerrors.ErrRatingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalogerrors.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeInternalError(w)
	}
}
