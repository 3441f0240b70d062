package service

import (
	"context"
	"log"

	"authportal/internal/model"
)

// VerificationAction marks an email as verified. Implementations must be
// idempotent; the hook may fire more than once for the same link.
type VerificationAction interface {
	MarkEmailVerified(ctx context.Context, email string) error
}

// LinkHook reacts to an external provider account becoming linked to a
// local user.
type LinkHook interface {
	OnAccountLinked(ctx context.Context, user *model.User, account *model.Account)
}

type linkHook struct {
	verifier VerificationAction
	trusted  map[string]struct{}
}

// NewLinkHook creates the account-linked hook. Only providers in the
// trusted list trigger email verification.
func NewLinkHook(verifier VerificationAction, trustedProviders []string) LinkHook {
	trusted := make(map[string]struct{}, len(trustedProviders))
	for _, p := range trustedProviders {
		trusted[p] = struct{}{}
	}
	return &linkHook{verifier: verifier, trusted: trusted}
}

// OnAccountLinked auto-verifies the user's email when a trusted OAuth
// provider vouched for it. The link itself never depends on the outcome:
// verification failures are logged and swallowed.
func (h *linkHook) OnAccountLinked(ctx context.Context, user *model.User, account *model.Account) {
	if user == nil || account == nil {
		return
	}
	if _, ok := h.trusted[account.Provider]; !ok {
		return
	}
	if user.Email == "" {
		return
	}
	if err := h.verifier.MarkEmailVerified(ctx, user.Email); err != nil {
		log.Printf("link hook: mark email verified for %s: %v", user.Email, err)
	}
}
