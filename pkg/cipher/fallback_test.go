package cipher_test

import (
	"testing"

	"github.com/aretw0/bbsdemo/pkg/cipher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShift(t *testing.T) {
	assert.Equal(t, 0, cipher.Shift(""))
	assert.Equal(t, int('k'+'e'+'y')%26, cipher.Shift("key"))
	// "😀" is two UTF-16 code units (0xD83D, 0xDE00).
	assert.Equal(t, (0xD83D+0xDE00)%26, cipher.Shift("😀"))
}

func TestEncryptLocal_Known(t *testing.T) {
	// Shift("a") = 97 % 26 = 19.
	out, err := cipher.EncryptLocal("Hello, World!", "a")
	require.NoError(t, err)
	assert.Equal(t, "Axeeh, Phkew!", out)
}

func TestEncryptLocal_RequiresInput(t *testing.T) {
	_, err := cipher.EncryptLocal("", "k")
	assert.ErrorIs(t, err, cipher.ErrTextAndKeyRequired)
	_, err = cipher.DecryptLocal("abc", "")
	assert.ErrorIs(t, err, cipher.ErrTextAndKeyRequired)
}

func TestLocalRoundTrip(t *testing.T) {
	texts := []string{
		"The quick brown fox jumps over the lazy dog",
		"ALL CAPS 123 !@#",
		"mixed ÀÉ ünïcödé and 日本語",
		"~",
	}
	keys := []string{"a", "z", "secret", "Key With Spaces", "日本", "m"}

	for _, text := range texts {
		for _, key := range keys {
			enc, err := cipher.EncryptLocal(text, key)
			require.NoError(t, err)
			dec, err := cipher.DecryptLocal(enc, key)
			require.NoError(t, err)
			assert.Equal(t, text, dec, "text=%q key=%q", text, key)
		}
	}
}

func TestLocal_ZeroShiftIsIdentity(t *testing.T) {
	// 'A'+'A' = 130 = 5*26.
	require.Equal(t, 0, cipher.Shift("AA"))
	out, err := cipher.DecryptLocal("Plain", "AA")
	require.NoError(t, err)
	assert.Equal(t, "Plain", out)
}
