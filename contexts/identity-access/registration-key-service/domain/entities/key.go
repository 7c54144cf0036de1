package entities

import "time"

// Key is a single-use or limited-use invitation key. The token is generated
// once at creation and never regenerated.
type Key struct {
	KeyID     string
	Token     string
	Role      string
	CreatedBy string
	CreatedAt time.Time
	ExpiresAt *time.Time
	MaxUses   int
	Uses      int
	Note      string
	IsActive  bool
}

// Verdict is the read-only validity state of a key. The precedence is fixed
// and caller-visible: inactive wins over exhausted wins over expired.
type Verdict string

const (
	VerdictValid     Verdict = "valid"
	VerdictInactive  Verdict = "inactive"
	VerdictExhausted Verdict = "exhausted"
	VerdictExpired   Verdict = "expired"
)

func (k Key) Validate(now time.Time) Verdict {
	if !k.IsActive {
		return VerdictInactive
	}
	if k.MaxUses > 0 && k.Uses >= k.MaxUses {
		return VerdictExhausted
	}
	if k.ExpiresAt != nil && now.After(*k.ExpiresAt) {
		return VerdictExpired
	}
	return VerdictValid
}

func (k Key) IsUsable(now time.Time) bool {
	return k.Validate(now) == VerdictValid
}

// UsesLeft returns the remaining uses. Unlimited keys (max_uses = 0) return
// false for the second value.
func (k Key) UsesLeft() (int, bool) {
	if k.MaxUses <= 0 {
		return 0, false
	}
	left := k.MaxUses - k.Uses
	if left < 0 {
		left = 0
	}
	return left, true
}
