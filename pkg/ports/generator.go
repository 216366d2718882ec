package ports

import (
	"context"

	"github.com/aretw0/bbsdemo/pkg/domain"
)

// Generator is the boundary to the remote generator/cipher service.
// Implementations hold no workflow state and are safe to share.
//
// A nil error means the service answered with success=true. A service that
// answered success=false yields a *domain.RemoteError; anything that prevented
// a well-formed answer yields a *domain.TransportError.
type Generator interface {
	// Encrypt transforms plaintext into hex ciphertext.
	Encrypt(ctx context.Context, params domain.Params, input string) (domain.CipherResult, error)

	// Decrypt transforms hex ciphertext back into plaintext.
	Decrypt(ctx context.Context, params domain.Params, encrypted string) (domain.CipherResult, error)

	// ShuffleDeck returns a permutation of the 52-card deck.
	ShuffleDeck(ctx context.Context, params domain.Params) (domain.ShuffleResult, error)

	// Roulette draws a winning slot in [0, slots).
	Roulette(ctx context.Context, params domain.Params, slots int) (domain.SpinResult, error)
}
