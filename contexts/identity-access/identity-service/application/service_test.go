package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"athenaeum/contexts/identity-access/identity-service/adapters/crypto"
	"athenaeum/contexts/identity-access/identity-service/adapters/keygate"
	"athenaeum/contexts/identity-access/identity-service/adapters/memory"
	domainerrors "athenaeum/contexts/identity-access/identity-service/domain/errors"
	keymemory "athenaeum/contexts/identity-access/registration-key-service/adapters/memory"
	keyapplication "athenaeum/contexts/identity-access/registration-key-service/application"
	keyerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"
	"athenaeum/internal/shared/roles"
)

type fixture struct {
	service    Service
	keyService keyapplication.Service
	keyStore   *keymemory.Store
	store      *memory.Store
}

func newFixture() fixture {
	keyStore := keymemory.NewStore()
	keyService := keyapplication.Service{
		Repo:   keyStore,
		Clock:  keyStore,
		IDs:    keyStore,
		Tokens: keyStore,
	}
	store := memory.NewStore(keyStore)
	return fixture{
		service: Service{
			Repo:       store,
			Keys:       keygate.New(keyService),
			Hasher:     crypto.BcryptHasher{Cost: 4},
			Clock:      store,
			IDs:        store,
			SessionTTL: time.Hour,
		},
		keyService: keyService,
		keyStore:   keyStore,
		store:      store,
	}
}

func (f fixture) mintKey(t *testing.T, role string, maxUses int) string {
	t.Helper()
	key, err := f.keyService.Generate(context.Background(), "admin_0", role, 7, maxUses, "")
	if err != nil {
		t.Fatalf("generate key failed: %v", err)
	}
	return key.Token
}

func (f fixture) register(t *testing.T, username string, role string, token string) string {
	t.Helper()
	account, _, err := f.service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.edu",
		Password: "correct horse",
		Role:     role,
		KeyToken: token,
	})
	if err != nil {
		t.Fatalf("register %s failed: %v", username, err)
	}
	return account.AccountID
}

func TestRegisterHappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Teacher, 1)

	account, sessionToken, err := f.service.Register(ctx, RegisterInput{
		Username: "ada",
		Email:    "Ada@Example.EDU",
		Password: "longenough",
		Role:     roles.Teacher,
		KeyToken: token,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if account.Email != "ada@example.edu" {
		t.Fatalf("expected lowered email, got %q", account.Email)
	}
	if !account.IsStaff || account.IsSuperuser {
		t.Fatalf("expected teacher flags staff=true superuser=false, got staff=%v superuser=%v", account.IsStaff, account.IsSuperuser)
	}
	if account.PasswordHash == "longenough" {
		t.Fatal("password stored in the clear")
	}

	key, err := f.keyStore.GetKeyByToken(ctx, token)
	if err != nil {
		t.Fatalf("key lookup failed: %v", err)
	}
	if key.Uses != 1 {
		t.Fatalf("expected key consumed once, got uses=%d", key.Uses)
	}

	p, err := f.service.CurrentPrincipal(ctx, sessionToken)
	if err != nil {
		t.Fatalf("principal resolution failed: %v", err)
	}
	if !p.Authenticated || p.AccountID != account.AccountID || p.Role != roles.Teacher {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestRegisterAdminFlags(t *testing.T) {
	f := newFixture()
	token := f.mintKey(t, roles.Admin, 1)

	account, _, err := f.service.Register(context.Background(), RegisterInput{
		Username: "root",
		Email:    "root@example.edu",
		Password: "longenough",
		Role:     roles.Admin,
		KeyToken: token,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !account.IsStaff || !account.IsSuperuser {
		t.Fatalf("expected admin to be staff and superuser, got staff=%v superuser=%v", account.IsStaff, account.IsSuperuser)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 0)
	f.register(t, "ada", roles.Student, token)

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"short password", RegisterInput{Username: "bob", Email: "bob@example.edu", Password: "short", Role: roles.Student, KeyToken: token}, domainerrors.ErrPasswordTooShort},
		{"bad role", RegisterInput{Username: "bob", Email: "bob@example.edu", Password: "longenough", Role: "wizard", KeyToken: token}, domainerrors.ErrInvalidRole},
		{"missing key", RegisterInput{Username: "bob", Email: "bob@example.edu", Password: "longenough", Role: roles.Student}, domainerrors.ErrInvalidRequest},
		{"username taken", RegisterInput{Username: "ADA", Email: "other@example.edu", Password: "longenough", Role: roles.Student, KeyToken: token}, domainerrors.ErrUsernameTaken},
		{"email taken", RegisterInput{Username: "bob", Email: "ada@example.edu", Password: "longenough", Role: roles.Student, KeyToken: token}, domainerrors.ErrEmailTaken},
		{"unknown key", RegisterInput{Username: "bob", Email: "bob@example.edu", Password: "longenough", Role: roles.Student, KeyToken: "nope"}, keyerrors.ErrKeyNotFound},
	}
	for _, tc := range cases {
		if _, _, err := f.service.Register(ctx, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRegisterRoleMismatchLeavesKeyUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 1)

	_, _, err := f.service.Register(ctx, RegisterInput{
		Username: "bob",
		Email:    "bob@example.edu",
		Password: "longenough",
		Role:     roles.Teacher,
		KeyToken: token,
	})
	if !errors.Is(err, domainerrors.ErrRoleMismatch) {
		t.Fatalf("expected role mismatch, got %v", err)
	}

	key, err := f.keyStore.GetKeyByToken(ctx, token)
	if err != nil {
		t.Fatalf("key lookup failed: %v", err)
	}
	if key.Uses != 0 {
		t.Fatalf("mismatched registration consumed the key: uses=%d", key.Uses)
	}
	if exists, _ := f.store.UsernameExists(ctx, "bob"); exists {
		t.Fatal("mismatched registration left an account behind")
	}
}

func TestRegisterExhaustedKeyRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 1)
	f.register(t, "first", roles.Student, token)

	_, _, err := f.service.Register(ctx, RegisterInput{
		Username: "second",
		Email:    "second@example.edu",
		Password: "longenough",
		Role:     roles.Student,
		KeyToken: token,
	})
	if !errors.Is(err, keyerrors.ErrKeyExhausted) {
		t.Fatalf("expected exhausted key error, got %v", err)
	}
	if exists, _ := f.store.UsernameExists(ctx, "second"); exists {
		t.Fatal("failed registration left an account behind")
	}
}

func TestAuthenticateUniformFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 0)
	accountID := f.register(t, "ada", roles.Student, token)

	if _, _, err := f.service.Authenticate(ctx, "nobody", "longenough"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected invalid credentials, got %v", err)
	}
	if _, _, err := f.service.Authenticate(ctx, "ada", "wrong password"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected invalid credentials, got %v", err)
	}

	if _, err := f.service.UpdateAccount(ctx, accountID, roles.Student, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, _, err := f.service.Authenticate(ctx, "ada", "correct horse"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("inactive account: expected invalid credentials, got %v", err)
	}
}

func TestAuthenticateIsCaseInsensitiveOnUsername(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 0)
	f.register(t, "ada", roles.Student, token)

	account, _, err := f.service.Authenticate(ctx, "ADA", "correct horse")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if account.Username != "ada" {
		t.Fatalf("unexpected account %q", account.Username)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 0)
	f.register(t, "ada", roles.Student, token)

	_, sessionToken, err := f.service.Authenticate(ctx, "ada", "correct horse")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if err := f.service.Logout(ctx, sessionToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	p, err := f.service.CurrentPrincipal(ctx, sessionToken)
	if err != nil {
		t.Fatalf("principal resolution failed: %v", err)
	}
	if p.Authenticated {
		t.Fatal("expected revoked session to resolve anonymous")
	}

	// Unknown and empty tokens are no-ops, not errors.
	if err := f.service.Logout(ctx, "never-issued"); err != nil {
		t.Fatalf("unknown token logout errored: %v", err)
	}
	if err := f.service.Logout(ctx, ""); err != nil {
		t.Fatalf("empty token logout errored: %v", err)
	}
}

func TestCurrentPrincipalAnonymousPaths(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, token := range []string{"", "garbage"} {
		p, err := f.service.CurrentPrincipal(ctx, token)
		if err != nil {
			t.Fatalf("token %q: unexpected error %v", token, err)
		}
		if p.Authenticated {
			t.Fatalf("token %q: expected anonymous principal", token)
		}
	}
}

func TestUpdateProfileKeepsEmailUnique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 0)
	adaID := f.register(t, "ada", roles.Student, token)
	f.register(t, "bob", roles.Student, token)

	taken := "bob@example.edu"
	if _, err := f.service.UpdateProfile(ctx, adaID, ProfileInput{Email: &taken}); !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	bio := "studies analytical engines"
	updated, err := f.service.UpdateProfile(ctx, adaID, ProfileInput{Bio: &bio})
	if err != nil {
		t.Fatalf("profile update failed: %v", err)
	}
	if updated.Bio != bio {
		t.Fatalf("bio not applied: %q", updated.Bio)
	}
	if updated.Email != "ada@example.edu" {
		t.Fatalf("email changed unexpectedly: %q", updated.Email)
	}
}

func TestUpdateAccountRecomputesFlags(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.mintKey(t, roles.Student, 0)
	accountID := f.register(t, "ada", roles.Student, token)

	promoted, err := f.service.UpdateAccount(ctx, accountID, roles.Admin, true)
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if !promoted.IsStaff || !promoted.IsSuperuser {
		t.Fatalf("expected admin flags, got staff=%v superuser=%v", promoted.IsStaff, promoted.IsSuperuser)
	}

	demoted, err := f.service.UpdateAccount(ctx, accountID, roles.Student, true)
	if err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	if demoted.IsStaff || demoted.IsSuperuser {
		t.Fatalf("expected flags cleared on demotion, got staff=%v superuser=%v", demoted.IsStaff, demoted.IsSuperuser)
	}

	if _, err := f.service.UpdateAccount(ctx, accountID, "wizard", true); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestListAccountsRoleStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.register(t, "s1", roles.Student, f.mintKey(t, roles.Student, 0))
	f.register(t, "s2", roles.Student, f.mintKey(t, roles.Student, 0))
	f.register(t, "t1", roles.Teacher, f.mintKey(t, roles.Teacher, 0))
	f.register(t, "a1", roles.Admin, f.mintKey(t, roles.Admin, 0))

	accounts, stats, err := f.service.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(accounts) != 4 || stats.Total != 4 {
		t.Fatalf("expected 4 accounts, got %d (total=%d)", len(accounts), stats.Total)
	}
	if stats.Students != 2 || stats.Teachers != 1 || stats.Admins != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestDeleteAccountProtections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	adminID := f.register(t, "root", roles.Admin, f.mintKey(t, roles.Admin, 0))
	otherAdminID := f.register(t, "root2", roles.Admin, f.mintKey(t, roles.Admin, 0))
	studentID := f.register(t, "ada", roles.Student, f.mintKey(t, roles.Student, 0))

	if err := f.service.DeleteAccount(ctx, adminID, adminID); !errors.Is(err, domainerrors.ErrDeleteSelf) {
		t.Fatalf("self delete: expected protection, got %v", err)
	}
	if err := f.service.DeleteAccount(ctx, adminID, otherAdminID); !errors.Is(err, domainerrors.ErrDeleteAdmin) {
		t.Fatalf("admin delete: expected protection, got %v", err)
	}
	if err := f.service.DeleteAccount(ctx, adminID, "acct_missing"); !errors.Is(err, domainerrors.ErrAccountNotFound) {
		t.Fatalf("missing account: expected not found, got %v", err)
	}

	_, sessionToken, err := f.service.Authenticate(ctx, "ada", "correct horse")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if err := f.service.DeleteAccount(ctx, adminID, studentID); err != nil {
		t.Fatalf("student delete failed: %v", err)
	}
	if _, err := f.service.GetAccount(ctx, studentID); !errors.Is(err, domainerrors.ErrAccountNotFound) {
		t.Fatalf("expected account gone, got %v", err)
	}
	p, err := f.service.CurrentPrincipal(ctx, sessionToken)
	if err != nil {
		t.Fatalf("principal resolution failed: %v", err)
	}
	if p.Authenticated {
		t.Fatal("expected deleted account's session to be revoked")
	}
}
