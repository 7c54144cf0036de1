package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	keyerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"

	identityerrors "athenaeum/contexts/identity-access/identity-service/domain/errors"
	identityhttp "athenaeum/contexts/identity-access/identity-service/transport/http"
)

func (s *Server) registerAccountRoutes() {
	s.mux.HandleFunc("POST /api/accounts/v1/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/accounts/v1/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/accounts/v1/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/accounts/v1/me", s.handleMe)
	s.mux.HandleFunc("POST /api/accounts/v1/profile", s.handleUpdateProfile)

	s.mux.HandleFunc("GET /api/accounts/v1/users", s.handleListAccounts)
	s.mux.HandleFunc("POST /api/accounts/v1/users/{user_id}", s.handleUpdateAccount)
	s.mux.HandleFunc("DELETE /api/accounts/v1/users/{user_id}", s.handleDeleteAccount)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.identity.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	setSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.identity.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	setSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.LogoutHandler(r.Context(), sessionToken(r))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	resp, err := s.identity.Handler.ProfileHandler(r.Context(), p.AccountID)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req identityhttp.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.identity.Handler.UpdateProfileHandler(r.Context(), p.AccountID, req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if !s.authorization.Guard.CanManageAccounts(p) {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	resp, err := s.identity.Handler.AccountsHandler(r.Context())
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if !s.authorization.Guard.CanManageAccounts(p) {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req identityhttp.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.identity.Handler.UpdateAccountHandler(r.Context(), r.PathValue("user_id"), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if !s.authorization.Guard.CanManageAccounts(p) {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	resp, err := s.identity.Handler.DeleteAccountHandler(r.Context(), p.AccountID, r.PathValue("user_id"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeIdentityDomainError maps identity failures onto the envelope.
// Validation, bad credentials, unusable keys, and protected-account
// violations are all 400s; only a missing account is a 404.
func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identityerrors.ErrInvalidRequest),
		errors.Is(err, identityerrors.ErrInvalidRole),
		errors.Is(err, identityerrors.ErrPasswordTooShort),
		errors.Is(err, identityerrors.ErrUsernameTaken),
		errors.Is(err, identityerrors.ErrEmailTaken),
		errors.Is(err, identityerrors.ErrRoleMismatch),
		errors.Is(err, identityerrors.ErrKeyNoLongerUsable),
		errors.Is(err, identityerrors.ErrInvalidCredentials),
		errors.Is(err, identityerrors.ErrDeleteSelf),
		errors.Is(err, identityerrors.ErrDeleteAdmin):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, keyerrors.ErrKeyNotFound),
		errors.Is(err, keyerrors.ErrKeyInactive),
		errors.Is(err, keyerrors.ErrKeyExhausted),
		errors.Is(err, keyerrors.ErrKeyExpired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identityerrors.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeInternalError(w)
	}
}
