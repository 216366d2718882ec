package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// envelope is the union of every response shape of the generator service.
type envelope struct {
	Success       *bool         `mapstructure:"success"`
	Message       string        `mapstructure:"message"`
	CiphertextHex *string       `mapstructure:"ciphertextHex"`
	WinningNumber *int          `mapstructure:"winningNumber"`
	ShuffledDeck  []string      `mapstructure:"shuffledDeck"`
	Steps         []domain.Step `mapstructure:"steps"`
}

// decodeEnvelope decodes loosely: numbers sent as strings and vice versa are
// accepted, since the service is not consistent about them.
func decodeEnvelope(data []byte) (*envelope, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	var env envelope
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &env,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &env, nil
}

func (e *envelope) cipherResult(op domain.Operation) (domain.CipherResult, error) {
	if e.CiphertextHex == nil {
		return domain.CipherResult{}, &domain.TransportError{
			Operation: op,
			Err:       fmt.Errorf("%w: missing ciphertextHex", domain.ErrMalformedResponse),
		}
	}
	return domain.CipherResult{Text: *e.CiphertextHex, Steps: e.Steps}, nil
}

// spinResult reads winningNumber, falling back to ciphertextHex which older
// servers use to carry the number as decimal text.
func (e *envelope) spinResult() (domain.SpinResult, error) {
	switch {
	case e.WinningNumber != nil:
		return domain.SpinResult{WinningNumber: *e.WinningNumber, Steps: e.Steps}, nil
	case e.CiphertextHex != nil:
		n, err := strconv.Atoi(strings.TrimSpace(*e.CiphertextHex))
		if err != nil {
			return domain.SpinResult{}, &domain.TransportError{
				Operation: domain.OpRoulette,
				Err:       fmt.Errorf("%w: winning number %q", domain.ErrMalformedResponse, *e.CiphertextHex),
			}
		}
		return domain.SpinResult{WinningNumber: n, Steps: e.Steps}, nil
	}
	return domain.SpinResult{}, &domain.TransportError{
		Operation: domain.OpRoulette,
		Err:       fmt.Errorf("%w: missing winningNumber", domain.ErrMalformedResponse),
	}
}

func (e *envelope) shuffleResult() (domain.ShuffleResult, error) {
	if e.ShuffledDeck == nil {
		return domain.ShuffleResult{}, &domain.TransportError{
			Operation: domain.OpShuffleDeck,
			Err:       fmt.Errorf("%w: missing shuffledDeck", domain.ErrMalformedResponse),
		}
	}
	return domain.ShuffleResult{Deck: e.ShuffledDeck, Steps: e.Steps, Message: e.Message}, nil
}
