package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"athenaeum/contexts/identity-access/registration-key-service/adapters/memory"
	domainerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"
)

func newService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Repo:   store,
		Clock:  store,
		IDs:    store,
		Tokens: store,
	}, store
}

func TestGenerateValidatesInput(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	if _, err := service.Generate(ctx, "teacher_1", "wizard", 7, 1, ""); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
	if _, err := service.Generate(ctx, "teacher_1", "student", -1, 1, ""); !errors.Is(err, domainerrors.ErrInvalidExpiry) {
		t.Fatalf("expected invalid expiry, got %v", err)
	}
	if _, err := service.Generate(ctx, "teacher_1", "student", 7, -1, ""); !errors.Is(err, domainerrors.ErrInvalidMaxUses) {
		t.Fatalf("expected invalid max uses, got %v", err)
	}
}

func TestGenerateSetsExpiryAndToken(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	key, err := service.Generate(ctx, "teacher_1", "student", 7, 1, "fall cohort")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(key.Token) != 32 {
		t.Fatalf("expected 32-char token, got %d chars", len(key.Token))
	}
	if key.ExpiresAt == nil {
		t.Fatal("expected expiry to be set")
	}
	wantExpiry := key.CreatedAt.AddDate(0, 0, 7)
	if !key.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %v, got %v", wantExpiry, *key.ExpiresAt)
	}

	noExpiry, err := service.Generate(ctx, "teacher_1", "student", 0, 0, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if noExpiry.ExpiresAt != nil {
		t.Fatal("expected expiry_days=0 to mean no expiry")
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	key, err := service.Generate(ctx, "teacher_1", "student", 7, 1, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for i := 0; i < 100; i++ {
		checked, err := service.Check(ctx, key.Token)
		if err != nil {
			t.Fatalf("check %d failed: %v", i, err)
		}
		if checked.Uses != 0 {
			t.Fatalf("check %d consumed the key: uses=%d", i, checked.Uses)
		}
	}

	consumed, err := service.Consume(ctx, key.Token)
	if err != nil || !consumed {
		t.Fatalf("expected key still consumable after checks, got consumed=%v err=%v", consumed, err)
	}
}

func TestCheckReportsDistinctReasons(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	if _, err := service.Check(ctx, "no-such-token"); !errors.Is(err, domainerrors.ErrKeyNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	key, err := service.Generate(ctx, "teacher_1", "student", 7, 1, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := service.Consume(ctx, key.Token); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if _, err := service.Check(ctx, key.Token); !errors.Is(err, domainerrors.ErrKeyExhausted) {
		t.Fatalf("expected exhausted, got %v", err)
	}

	revocable, err := service.Generate(ctx, "teacher_1", "student", 7, 1, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if err := service.Revoke(ctx, revocable.KeyID, "teacher_1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := service.Check(ctx, revocable.Token); !errors.Is(err, domainerrors.ErrKeyInactive) {
		t.Fatalf("expected inactive, got %v", err)
	}
}

func TestRevokeIsCreatorScoped(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	key, err := service.Generate(ctx, "teacher_1", "student", 7, 1, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := service.Revoke(ctx, key.KeyID, "teacher_2"); !errors.Is(err, domainerrors.ErrNotKeyCreator) {
		t.Fatalf("expected not-creator error, got %v", err)
	}
	if err := service.Revoke(ctx, key.KeyID, "teacher_1"); err != nil {
		t.Fatalf("creator revoke failed: %v", err)
	}
	// Revoking an already-inactive key is a no-op for the creator.
	if err := service.Revoke(ctx, key.KeyID, "teacher_1"); err != nil {
		t.Fatalf("second revoke should be idempotent, got %v", err)
	}
}

func TestListActiveScopesAndSorts(t *testing.T) {
	service, store := newService()
	ctx := context.Background()

	first, err := service.Generate(ctx, "teacher_1", "student", 7, 1, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := service.Generate(ctx, "teacher_1", "teacher", 7, 1, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	other, err := service.Generate(ctx, "teacher_2", "student", 7, 1, "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	mine, err := service.ListActive(ctx, "teacher_1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 keys for teacher_1, got %d", len(mine))
	}
	if mine[0].KeyID != second.KeyID || mine[1].KeyID != first.KeyID {
		t.Fatalf("expected newest-first ordering, got %s then %s", mine[0].KeyID, mine[1].KeyID)
	}

	all, err := service.ListAllActive(ctx)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 active keys total, got %d", len(all))
	}

	if err := store.RevokeKey(ctx, other.KeyID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	all, err = service.ListAllActive(ctx)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected revoked key to drop out, got %d keys", len(all))
	}
}
