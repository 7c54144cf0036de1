package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	authorization "athenaeum/contexts/identity-access/authorization-service"
	identity "athenaeum/contexts/identity-access/identity-service"
	registrationkeys "athenaeum/contexts/identity-access/registration-key-service"
	catalog "athenaeum/contexts/library/catalog-service"
	_ "athenaeum/internal/platform/httpserver/docs"
	"athenaeum/internal/shared/principal"

	httpSwagger "github.com/swaggo/http-swagger"
)

const sessionCookieName = "session"

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	keys          registrationkeys.Module
	identity      identity.Module
	authorization authorization.Module
	catalog       catalog.Module
}

func New(
	keys registrationkeys.Module,
	identityModule identity.Module,
	authorizationModule authorization.Module,
	catalogModule catalog.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		keys:          keys,
		identity:      identityModule,
		authorization: authorizationModule,
		catalog:       catalogModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest-driven tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerAccountRoutes()
	s.registerKeyRoutes()
	s.registerLibraryRoutes()
}

// resolvePrincipal turns the request's session token into a principal.
// Anonymous requests resolve to the anonymous principal; only storage
// failures surface as errors.
func (s *Server) resolvePrincipal(r *http.Request) (principal.Principal, error) {
	return s.identity.Service.CurrentPrincipal(r.Context(), sessionToken(r))
}

// requirePrincipal is resolvePrincipal plus the 401 for anonymous callers.
func (s *Server) requirePrincipal(w http.ResponseWriter, r *http.Request) (principal.Principal, bool) {
	p, err := s.resolvePrincipal(r)
	if err != nil {
		writeInternalError(w)
		return principal.Principal{}, false
	}
	if !p.Authenticated {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return principal.Principal{}, false
	}
	return p, true
}

// sessionToken prefers the Authorization bearer header and falls back to
// the session cookie set at login.
func sessionToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: message})
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
