package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/bbsdemo/internal/logging"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/ports"
)

// DefaultBaseURL is where the generator service listens by default.
const DefaultBaseURL = "http://localhost:8080"

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 1 << 20

var _ ports.Generator = (*Client)(nil)

// Client calls the generator service over HTTP/JSON.
// It is stateless apart from its configuration and safe to share.
type Client struct {
	baseURL  string
	http     *http.Client
	contract *Contract
	logger   *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithLogger configures a logger for the Client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a generator client for baseURL (DefaultBaseURL if empty).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	contract, err := LoadContract()
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		contract: contract,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type paramsBody struct {
	domain.Params
	Input     *string `json:"input,omitempty"`
	Encrypted *string `json:"encrypted,omitempty"`
	Slots     *int    `json:"slots,omitempty"`
}

// Encrypt implements ports.Generator.
func (c *Client) Encrypt(ctx context.Context, params domain.Params, input string) (domain.CipherResult, error) {
	env, err := c.post(ctx, domain.OpEncrypt, paramsBody{Params: params, Input: &input})
	if err != nil {
		return domain.CipherResult{}, err
	}
	return env.cipherResult(domain.OpEncrypt)
}

// Decrypt implements ports.Generator.
func (c *Client) Decrypt(ctx context.Context, params domain.Params, encrypted string) (domain.CipherResult, error) {
	env, err := c.post(ctx, domain.OpDecrypt, paramsBody{Params: params, Encrypted: &encrypted})
	if err != nil {
		return domain.CipherResult{}, err
	}
	return env.cipherResult(domain.OpDecrypt)
}

// ShuffleDeck implements ports.Generator.
func (c *Client) ShuffleDeck(ctx context.Context, params domain.Params) (domain.ShuffleResult, error) {
	env, err := c.post(ctx, domain.OpShuffleDeck, paramsBody{Params: params})
	if err != nil {
		return domain.ShuffleResult{}, err
	}
	return env.shuffleResult()
}

// Roulette implements ports.Generator.
func (c *Client) Roulette(ctx context.Context, params domain.Params, slots int) (domain.SpinResult, error) {
	env, err := c.post(ctx, domain.OpRoulette, paramsBody{Params: params, Slots: &slots})
	if err != nil {
		return domain.SpinResult{}, err
	}
	return env.spinResult()
}

// post sends body to op, validates the answer against the contract and
// decodes the common envelope. A success=false answer becomes a RemoteError.
func (c *Client) post(ctx context.Context, op domain.Operation, body paramsBody) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.TransportError{Operation: op, Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	url := c.baseURL + Path(op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.TransportError{Operation: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Operation: op, Err: classify(ctx, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &domain.TransportError{Operation: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	c.logger.Debug("generator answered", "operation", op, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.TransportError{Operation: op, Err: statusError(resp.StatusCode, data)}
	}

	if err := c.contract.ValidateResponse(ctx, op, req, resp.StatusCode, resp.Header, data); err != nil {
		c.logger.Warn("generator response violates contract", "operation", op, "err", err)
		return nil, &domain.TransportError{Operation: op, Err: fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)}
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, &domain.TransportError{Operation: op, Err: err}
	}
	if env.Success != nil && !*env.Success {
		return nil, &domain.RemoteError{Operation: op, Message: env.Message}
	}
	return env, nil
}

// classify marks connection failures as ErrServerUnreachable and surfaces
// context errors unwrapped.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%w: %v", domain.ErrServerUnreachable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}

// statusError extracts the server's message from an error body if it has one.
func statusError(status int, body []byte) error {
	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	text := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &msg) == nil {
		switch {
		case msg.Message != "":
			text = msg.Message
		case msg.Error != "":
			text = msg.Error
		}
	}
	if text == "" {
		text = http.StatusText(status)
	}
	return fmt.Errorf("server returned %d: %s", status, text)
}
