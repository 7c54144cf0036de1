// Package principal carries the authenticated-caller identity across module
// boundaries. It is deliberately small: modules that need capabilities ask
// the authorization policy, not the principal itself.
package principal

type Principal struct {
	AccountID     string
	Username      string
	Role          string
	Authenticated bool
}

// Anonymous is the principal for unauthenticated requests.
func Anonymous() Principal {
	return Principal{}
}
