package service

import "context"

// Identity is the normalized result of a completed external provider
// exchange. It contains facts asserted by the provider, no decisions.
type Identity struct {
	Provider          string // e.g. "google", "github"
	ProviderAccountID string // provider-scoped unique user identifier (sub)
	Email             string // email returned by the provider
	EmailVerified     bool   // whether the provider asserts email ownership
	FirstName         string
	LastName          string
	Image             string
}

// IdentityProvider performs the provider-side half of an OAuth sign-in.
// The handshake itself is the provider's concern; this layer only consumes
// the verified identity it yields.
type IdentityProvider interface {
	Name() string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// ProviderRegistry maps provider names to their exchange implementations.
type ProviderRegistry map[string]IdentityProvider

// Lookup returns the provider registered under name.
func (r ProviderRegistry) Lookup(name string) (IdentityProvider, bool) {
	p, ok := r[name]
	return p, ok
}
