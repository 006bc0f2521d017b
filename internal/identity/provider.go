package identity

import (
	"context"
	"errors"
)

// ErrServiceCredential is returned when identity deprovisioning is attempted
// without the elevated service credential.
var ErrServiceCredential = errors.New("identity: service credential required")

// ErrIdentityExists is returned when a login address is already provisioned.
var ErrIdentityExists = errors.New("identity: login address already registered")

// ErrInvalidCredentials is returned when a login address/secret pair does not
// match a provisioned identity.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// Provider manages external auth identities for employees.
//
// CreateIdentity runs under the caller's session credential; DeleteIdentity
// requires the elevated service credential, which is deliberately distinct
// from the session so ordinary callers cannot deprovision accounts.
type Provider interface {
	CreateIdentity(ctx context.Context, loginAddress, secret string) (identityID string, err error)
	VerifyIdentity(ctx context.Context, loginAddress, secret string) (identityID string, err error)
	DeleteIdentity(ctx context.Context, identityID, serviceKey string) error
}
