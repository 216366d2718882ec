package testutils

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/stretchr/testify/require"
)

var _ ports.Generator = (*FakeGenerator)(nil)

// FakeGenerator is a scriptable ports.Generator.
// Each field, when set, replaces the default answer for that operation.
// Gate, when non-nil, blocks every call until it is closed (or ctx is done).
type FakeGenerator struct {
	EncryptFn func(domain.Params, string) (domain.CipherResult, error)
	DecryptFn func(domain.Params, string) (domain.CipherResult, error)
	ShuffleFn func(domain.Params) (domain.ShuffleResult, error)
	SpinFn    func(domain.Params, int) (domain.SpinResult, error)
	Gate      chan struct{}

	// Entered receives one value per call after it is counted, if non-nil.
	Entered chan domain.Operation

	mu    sync.Mutex
	calls map[domain.Operation]int
}

// Calls returns how many times op was invoked.
func (f *FakeGenerator) Calls(op domain.Operation) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeGenerator) enter(ctx context.Context, op domain.Operation) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[domain.Operation]int)
	}
	f.calls[op]++
	f.mu.Unlock()

	if f.Entered != nil {
		f.Entered <- op
	}
	if f.Gate == nil {
		return nil
	}
	select {
	case <-f.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FakeGenerator) Encrypt(ctx context.Context, p domain.Params, input string) (domain.CipherResult, error) {
	if err := f.enter(ctx, domain.OpEncrypt); err != nil {
		return domain.CipherResult{}, err
	}
	if f.EncryptFn != nil {
		return f.EncryptFn(p, input)
	}
	return domain.CipherResult{Text: "0a1b", Steps: SampleSteps()}, nil
}

func (f *FakeGenerator) Decrypt(ctx context.Context, p domain.Params, encrypted string) (domain.CipherResult, error) {
	if err := f.enter(ctx, domain.OpDecrypt); err != nil {
		return domain.CipherResult{}, err
	}
	if f.DecryptFn != nil {
		return f.DecryptFn(p, encrypted)
	}
	return domain.CipherResult{Text: "hi", Steps: SampleSteps()}, nil
}

func (f *FakeGenerator) ShuffleDeck(ctx context.Context, p domain.Params) (domain.ShuffleResult, error) {
	if err := f.enter(ctx, domain.OpShuffleDeck); err != nil {
		return domain.ShuffleResult{}, err
	}
	if f.ShuffleFn != nil {
		return f.ShuffleFn(p)
	}
	return domain.ShuffleResult{Deck: ReversedDeck(), Message: "Deck shuffled"}, nil
}

func (f *FakeGenerator) Roulette(ctx context.Context, p domain.Params, slots int) (domain.SpinResult, error) {
	if err := f.enter(ctx, domain.OpRoulette); err != nil {
		return domain.SpinResult{}, err
	}
	if f.SpinFn != nil {
		return f.SpinFn(p, slots)
	}
	return domain.SpinResult{WinningNumber: 7, Steps: SampleSteps()}, nil
}

// SampleSteps returns a short, fixed generator trace.
func SampleSteps() []domain.Step {
	return []domain.Step{
		{N: 1, Xn: "144", Bit: 0},
		{N: 2, Xn: "1358", Bit: 0},
		{N: 3, Xn: "2335", Bit: 1},
	}
}

// ReversedDeck returns the canonical deck identifiers in reverse order,
// a valid permutation that differs from the identity.
func ReversedDeck() []string {
	canon := domain.CanonicalDeck()
	out := make([]string, len(canon))
	for i, c := range canon {
		out[len(canon)-1-i] = c.String()
	}
	return out
}

// RequireDistinct fails the test if any card identifier appears twice.
func RequireDistinct(t *testing.T, cards []domain.Card) {
	t.Helper()
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		require.False(t, seen[c.String()], "card %s appears twice", c)
		seen[c.String()] = true
	}
}
