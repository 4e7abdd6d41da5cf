// Package account manages the OneDrive accounts known to the worker and
// their credentials.
//
// The worker treats accounts as an external directory: it asks for a
// bearer token by account name and asks for a refresh when the remote
// store rejects one. How accounts are provisioned (interactive OAuth,
// config management, tests) is the directory implementation's business.
package account

import "context"

// Account is a snapshot of one configured account's credentials. A zero
// Name marks an invalid account: lookups for unknown names return one
// rather than an error, mirroring how the directory is consumed (the
// caller decides which error kind an unknown account maps to).
type Account struct {
	// Name is the unique display name, used as the first virtual path
	// segment.
	Name string

	// AccessToken is the current bearer token.
	AccessToken string

	// RefreshToken is the long-lived token used to mint access tokens.
	RefreshToken string

	// Scopes are the OAuth scopes the tokens were granted for.
	Scopes []string
}

// Valid reports whether the account names a configured account.
func (a Account) Valid() bool {
	return a.Name != ""
}

// Directory supplies accounts and credentials to the worker session.
type Directory interface {
	// Account returns the account for name, or an invalid Account when
	// name is not configured.
	Account(name string) Account

	// Create provisions a new account, returning an invalid Account when
	// the directory cannot create accounts (for example, when no
	// interactive broker is available).
	Create(ctx context.Context) (Account, error)

	// Refresh exchanges the account's refresh token for a fresh access
	// token and returns the updated account. The rotated credentials are
	// persisted before returning.
	Refresh(ctx context.Context, acc Account) (Account, error)

	// Remove forgets an account. Remote data is untouched.
	Remove(name string) error

	// Names returns the configured account names.
	Names() []string
}
