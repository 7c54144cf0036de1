package errors

import "errors"

var (
	ErrInvalidRole    = errors.New("unknown role")
	ErrInvalidExpiry  = errors.New("expiry days must not be negative")
	ErrInvalidMaxUses = errors.New("max uses must not be negative")

	ErrKeyNotFound  = errors.New("registration key not found")
	ErrKeyInactive  = errors.New("registration key is inactive")
	ErrKeyExhausted = errors.New("registration key has reached its maximum number of uses")
	ErrKeyExpired   = errors.New("registration key has expired")

	ErrNotKeyCreator = errors.New("only the key creator may revoke it")
)
