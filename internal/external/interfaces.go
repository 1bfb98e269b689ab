package external

import (
	"context"

	"listingrelay/internal/types"
)

// EmailProvider abstracts the transactional-email vendor. Send transmits a
// single pre-rendered email and returns the provider-assigned message ID on
// success.
type EmailProvider interface {
	Send(ctx context.Context, input types.SendInput) (string, error)
}

// IdentityProvider resolves a data-platform user id to a deliverable
// customer identity. Implementations return a nil CustomerData pointer with
// an error when the user cannot be resolved through any tier.
type IdentityProvider interface {
	ResolveCustomer(ctx context.Context, userID string) (*types.CustomerData, error)
}
