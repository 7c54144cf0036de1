package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	keyerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"
	keyhttp "athenaeum/contexts/identity-access/registration-key-service/transport/http"
)

func (s *Server) registerKeyRoutes() {
	s.mux.HandleFunc("POST /api/keys/v1/generate", s.handleGenerateKey)
	s.mux.HandleFunc("GET /api/keys/v1/active", s.handleActiveKeys)
	s.mux.HandleFunc("GET /api/keys/v1/all", s.handleAllActiveKeys)
	s.mux.HandleFunc("DELETE /api/keys/v1/{key_id}/revoke", s.handleRevokeKey)
	s.mux.HandleFunc("GET /api/keys/v1/check", s.handleCheckKey)
}

func (s *Server) handleGenerateKey(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if !s.authorization.Guard.CanManageKeys(p) {
		writeError(w, http.StatusForbidden, "staff access required")
		return
	}

	var req keyhttp.GenerateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.keys.Handler.GenerateKeyHandler(r.Context(), p.AccountID, req)
	if err != nil {
		writeKeyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleActiveKeys(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if !s.authorization.Guard.CanManageKeys(p) {
		writeError(w, http.StatusForbidden, "staff access required")
		return
	}

	resp, err := s.keys.Handler.ActiveKeysHandler(r.Context(), p.AccountID)
	if err != nil {
		writeKeyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAllActiveKeys is the admin oversight view across every creator.
func (s *Server) handleAllActiveKeys(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if !s.authorization.Guard.CanManageAccounts(p) {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	resp, err := s.keys.Handler.AllActiveKeysHandler(r.Context())
	if err != nil {
		writeKeyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeKey(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if !s.authorization.Guard.CanManageKeys(p) {
		writeError(w, http.StatusForbidden, "staff access required")
		return
	}

	resp, err := s.keys.Handler.RevokeKeyHandler(r.Context(), p.AccountID, r.PathValue("key_id"))
	if err != nil {
		writeKeyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCheckKey is public: the registration form probes keys before the
// account exists.
func (s *Server) handleCheckKey(w http.ResponseWriter, r *http.Request) {
	resp, err := s.keys.Handler.CheckKeyHandler(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		writeKeyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeKeyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, keyerrors.ErrInvalidRole),
		errors.Is(err, keyerrors.ErrInvalidExpiry),
		errors.Is(err, keyerrors.ErrInvalidMaxUses):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, keyerrors.ErrKeyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, keyerrors.ErrNotKeyCreator):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeInternalError(w)
	}
}
