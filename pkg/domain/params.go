package domain

import (
	"math/rand/v2"
	"strconv"
)

// Params is the (p, q, seed) triple configuring the remote generator.
// Values are kept as text; the validator decides whether they are usable.
type Params struct {
	P    string `json:"p"`
	Q    string `json:"q"`
	Seed string `json:"seed"`
}

// DefaultParams returns the demo values shipped with the client.
func DefaultParams() Params {
	return Params{P: "61", Q: "53", Seed: "12"}
}

// Step is an opaque generator state snapshot exposed for display.
type Step struct {
	N   int    `json:"n" mapstructure:"n"`
	Xn  string `json:"xn" mapstructure:"xn"`
	Bit int    `json:"bit" mapstructure:"bit"`
}

// CipherResult is the outcome of an encrypt or decrypt request.
// Text holds the ciphertext (hex) for encryption and the plaintext for decryption.
type CipherResult struct {
	Text  string
	Steps []Step
}

// SpinResult is the outcome of a roulette request.
type SpinResult struct {
	WinningNumber int
	Steps         []Step
}

// ShuffleResult is the outcome of a deck shuffle request.
type ShuffleResult struct {
	Deck    []string
	Steps   []Step
	Message string
}

// RandomSeed returns a fresh demo seed in [0, 1000).
func RandomSeed() string {
	return strconv.Itoa(rand.IntN(1000))
}
