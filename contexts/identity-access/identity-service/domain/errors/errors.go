package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidRole      = errors.New("unknown role")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	ErrUsernameTaken = errors.New("a user with this username already exists")
	ErrEmailTaken    = errors.New("a user with this email already exists")

	// ErrRoleMismatch is the registration-form-level check layered on top of
	// key validity: the key is usable but issued for a different role.
	ErrRoleMismatch = errors.New("registration key was issued for a different role")

	// ErrKeyNoLongerUsable covers the consume race: the key passed
	// validation but lost the conditional increment.
	ErrKeyNoLongerUsable = errors.New("registration key is no longer usable")

	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrAccountNotFound = errors.New("user not found")
	ErrDeleteSelf      = errors.New("you cannot delete your own account")
	ErrDeleteAdmin     = errors.New("administrator accounts cannot be deleted")
)
