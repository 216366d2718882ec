package domain

// Field constants for persistence and JSON standardization.
const (
	// SettingsKey is the storage key holding the serialized Settings blob.
	SettingsKey = "appSettings"

	// DefaultSlots is the number of slots on the roulette wheel.
	DefaultSlots = 20
	// DefaultBalance is the starting wheel balance of a session.
	DefaultBalance = 1000
	// DefaultBet is the initial wheel bet.
	DefaultBet = 10
	// PayoutMultiplier credits a winning bet.
	PayoutMultiplier = 36
)

// Operation names the four request shapes understood by the remote generator.
type Operation string

const (
	OpEncrypt     Operation = "encrypt"
	OpDecrypt     Operation = "decrypt"
	OpShuffleDeck Operation = "shuffle-deck"
	OpRoulette    Operation = "roulette"
)
