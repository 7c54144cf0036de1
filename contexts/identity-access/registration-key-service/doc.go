// Package registrationkeys contains the Athenaeum registration-key store:
// invitation keys that gate account signup and carry the role assigned at
// registration time.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package registrationkeys
