// Package identity contains the Athenaeum account and session core:
// key-gated registration, credential authentication, session lifecycle, and
// admin account management.
package identity
