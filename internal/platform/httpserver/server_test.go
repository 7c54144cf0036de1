package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authorization "athenaeum/contexts/identity-access/authorization-service"
	identity "athenaeum/contexts/identity-access/identity-service"
	registrationkeys "athenaeum/contexts/identity-access/registration-key-service"
	catalog "athenaeum/contexts/library/catalog-service"
)

type testServer struct {
	server *Server
	keys   registrationkeys.Module
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	keyModule := registrationkeys.NewInMemoryModule(nil)
	identityModule := identity.NewInMemoryModule(keyModule.Service, keyModule.Store, nil)
	authModule := authorization.NewModule(nil)
	catalogModule := catalog.NewInMemoryModule(authModule.Guard, nil)
	return testServer{
		server: New(keyModule, identityModule, authModule, catalogModule, nil, ":0"),
		keys:   keyModule,
	}
}

func (ts testServer) do(t *testing.T, method string, path string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

// registerAs mints a key for the role and registers an account through the
// public endpoint, returning the session token.
func (ts testServer) registerAs(t *testing.T, username string, role string) string {
	t.Helper()
	key, err := ts.keys.Service.Generate(context.Background(), "seed", role, 7, 1, "")
	if err != nil {
		t.Fatalf("seed key failed: %v", err)
	}
	rec := ts.do(t, http.MethodPost, "/api/accounts/v1/register", "", map[string]any{
		"username":         username,
		"email":            username + "@example.edu",
		"password":         "longenough",
		"role":             role,
		"registration_key": key.Token,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d body=%s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decode(t, rec, &resp)
	if !resp.Success || resp.Token == "" {
		t.Fatalf("register %s: bad envelope %s", username, rec.Body.String())
	}
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAs(t, "ada", "student")

	rec := ts.do(t, http.MethodGet, "/api/accounts/v1/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var me struct {
		Success bool `json:"success"`
		Account struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"account"`
	}
	decode(t, rec, &me)
	if me.Account.Username != "ada" || me.Account.Role != "student" {
		t.Fatalf("unexpected profile %+v", me.Account)
	}

	rec = ts.do(t, http.MethodPost, "/api/accounts/v1/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/accounts/v1/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/accounts/v1/login", "", map[string]any{
		"username": "ada",
		"password": "longenough",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == sessionCookieName && cookie.Value != "" && cookie.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Fatal("login did not set the session cookie")
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAs(t, "ada", "student")

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie auth: expected 200, got %d", rec.Code)
	}
}

func TestUniformLoginFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAs(t, "ada", "student")

	unknown := ts.do(t, http.MethodPost, "/api/accounts/v1/login", "", map[string]any{
		"username": "nobody", "password": "longenough",
	})
	wrong := ts.do(t, http.MethodPost, "/api/accounts/v1/login", "", map[string]any{
		"username": "ada", "password": "not the password",
	})
	for _, rec := range []*httptest.ResponseRecorder{unknown, wrong} {
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}
}

func TestKeyRoutesAreRoleGated(t *testing.T) {
	ts := newTestServer(t)
	studentToken := ts.registerAs(t, "ada", "student")
	teacherToken := ts.registerAs(t, "grace", "teacher")
	adminToken := ts.registerAs(t, "root", "admin")

	body := map[string]any{"role": "student"}
	if rec := ts.do(t, http.MethodPost, "/api/keys/v1/generate", "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous generate: expected 401, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/api/keys/v1/generate", studentToken, body); rec.Code != http.StatusForbidden {
		t.Fatalf("student generate: expected 403, got %d", rec.Code)
	}

	rec := ts.do(t, http.MethodPost, "/api/keys/v1/generate", teacherToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("teacher generate: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var generated struct {
		Success bool `json:"success"`
		Key     struct {
			ID  string `json:"id"`
			Key string `json:"key"`
		} `json:"key"`
	}
	decode(t, rec, &generated)
	if len(generated.Key.Key) != 32 {
		t.Fatalf("expected 32-char key, got %q", generated.Key.Key)
	}

	// The creator-scoped listing is staff; the global listing is admin-only.
	if rec := ts.do(t, http.MethodGet, "/api/keys/v1/active", teacherToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("teacher active keys: expected 200, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/api/keys/v1/all", teacherToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("teacher all keys: expected 403, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/api/keys/v1/all", adminToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("admin all keys: expected 200, got %d", rec.Code)
	}

	// Revocation is creator-scoped even for other staff.
	if rec := ts.do(t, http.MethodDelete, "/api/keys/v1/"+generated.Key.ID+"/revoke", adminToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator revoke: expected 403, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodDelete, "/api/keys/v1/"+generated.Key.ID+"/revoke", teacherToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("creator revoke: expected 200, got %d", rec.Code)
	}
}

func TestCheckKeyIsPublic(t *testing.T) {
	ts := newTestServer(t)
	teacherToken := ts.registerAs(t, "grace", "teacher")

	rec := ts.do(t, http.MethodPost, "/api/keys/v1/generate", teacherToken, map[string]any{"role": "student"})
	var generated struct {
		Key struct {
			Key string `json:"key"`
		} `json:"key"`
	}
	decode(t, rec, &generated)

	rec = ts.do(t, http.MethodGet, "/api/keys/v1/check?key="+generated.Key.Key, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("check: expected 200, got %d", rec.Code)
	}
	var check struct {
		Valid    bool   `json:"valid"`
		Role     string `json:"role"`
		UsesLeft *int   `json:"uses_left"`
	}
	decode(t, rec, &check)
	if !check.Valid || check.Role != "student" {
		t.Fatalf("unexpected check payload %+v", check)
	}
	if check.UsesLeft == nil || *check.UsesLeft != 1 {
		t.Fatalf("expected uses_left=1, got %v", check.UsesLeft)
	}

	// Unknown keys are a valid=false payload, not an error status.
	rec = ts.do(t, http.MethodGet, "/api/keys/v1/check?key=bogus", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown key check: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &check)
	if check.Valid {
		t.Fatal("expected valid=false for an unknown key")
	}
}

func TestAccountAdministrationIsAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	teacherToken := ts.registerAs(t, "grace", "teacher")
	adminToken := ts.registerAs(t, "root", "admin")

	if rec := ts.do(t, http.MethodGet, "/api/accounts/v1/users", teacherToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("teacher roster: expected 403, got %d", rec.Code)
	}

	rec := ts.do(t, http.MethodGet, "/api/accounts/v1/users", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin roster: expected 200, got %d", rec.Code)
	}
	var roster struct {
		Success  bool `json:"success"`
		Accounts []struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"accounts"`
		Stats struct {
			Total    int `json:"total"`
			Teachers int `json:"teachers"`
			Admins   int `json:"admins"`
		} `json:"stats"`
	}
	decode(t, rec, &roster)
	if roster.Stats.Total != 2 || roster.Stats.Teachers != 1 || roster.Stats.Admins != 1 {
		t.Fatalf("unexpected stats %+v", roster.Stats)
	}

	var teacherID string
	for _, account := range roster.Accounts {
		if account.Role == "teacher" {
			teacherID = account.ID
		}
	}
	if teacherID == "" {
		t.Fatal("teacher missing from roster")
	}

	role := "admin"
	rec = ts.do(t, http.MethodPost, "/api/accounts/v1/users/"+teacherID, adminToken, map[string]any{"role": role})
	if rec.Code != http.StatusOK {
		t.Fatalf("promote: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	// Deleting another admin is a protected-account violation, not a 204.
	rec = ts.do(t, http.MethodDelete, "/api/accounts/v1/users/"+teacherID, adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete admin: expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
}

func TestLibraryRoutes(t *testing.T) {
	ts := newTestServer(t)
	studentToken := ts.registerAs(t, "ada", "student")
	teacherToken := ts.registerAs(t, "grace", "teacher")

	resourceBody := map[string]any{
		"title": "Calculus Notes",
		"type":  "note",
		"url":   "https://example.edu/calc",
	}
	if rec := ts.do(t, http.MethodPost, "/api/library/v1/resources", "", resourceBody); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/api/library/v1/resources", studentToken, resourceBody); rec.Code != http.StatusForbidden {
		t.Fatalf("student create: expected 403, got %d", rec.Code)
	}

	rec := ts.do(t, http.MethodPost, "/api/library/v1/resources", teacherToken, resourceBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("teacher create: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		Success  bool `json:"success"`
		Resource struct {
			ID string `json:"id"`
		} `json:"resource"`
	}
	decode(t, rec, &created)

	// Browsing is public; the detail view is principal-aware.
	if rec := ts.do(t, http.MethodGet, "/api/library/v1/resources", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("anonymous list: expected 200, got %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/library/v1/resources/"+created.Resource.ID, teacherToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", rec.Code)
	}
	var detail struct {
		CanEdit   bool `json:"can_edit"`
		CanDelete bool `json:"can_delete"`
	}
	decode(t, rec, &detail)
	if !detail.CanEdit || !detail.CanDelete {
		t.Fatalf("author should hold both capabilities, got %+v", detail)
	}

	rec = ts.do(t, http.MethodPost, "/api/library/v1/resources/"+created.Resource.ID+"/rating", studentToken, map[string]any{"score": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("rating: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = ts.do(t, http.MethodPost, "/api/library/v1/resources/"+created.Resource.ID+"/bookmark", studentToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bookmark: expected 200, got %d", rec.Code)
	}

	if rec := ts.do(t, http.MethodGet, "/api/library/v1/resources/res_missing", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing resource: expected 404, got %d", rec.Code)
	}

	// Topics: public reads, staff writes.
	if rec := ts.do(t, http.MethodPost, "/api/library/v1/topics", studentToken, map[string]any{"name": "algebra"}); rec.Code != http.StatusForbidden {
		t.Fatalf("student topic create: expected 403, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/api/library/v1/topics", teacherToken, map[string]any{"name": "algebra"}); rec.Code != http.StatusCreated {
		t.Fatalf("teacher topic create: expected 201, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/api/library/v1/topics", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("anonymous topics: expected 200, got %d", rec.Code)
	}
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts/v1/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope errorEnvelope
	decode(t, rec, &envelope)
	if envelope.Success || envelope.Error == "" {
		t.Fatalf("expected failure envelope, got %+v", envelope)
	}
}
