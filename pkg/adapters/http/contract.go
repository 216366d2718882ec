package http

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

//go:embed openapi.yaml
var rawSpec []byte

// Contract validates traffic against the embedded OpenAPI description of
// the generator service.
type Contract struct {
	doc    *openapi3.T
	routes map[domain.Operation]*routers.Route
}

var (
	contractOnce sync.Once
	contract     *Contract
	contractErr  error
)

// LoadContract parses and validates the embedded OpenAPI document once.
func LoadContract() (*Contract, error) {
	contractOnce.Do(func() {
		contract, contractErr = newContract(rawSpec)
	})
	return contract, contractErr
}

// Spec returns the raw embedded OpenAPI document.
func Spec() []byte {
	return rawSpec
}

func newContract(data []byte) (*Contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load generator contract: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid generator contract: %w", err)
	}

	c := &Contract{doc: doc, routes: make(map[domain.Operation]*routers.Route)}
	for _, op := range []domain.Operation{domain.OpEncrypt, domain.OpDecrypt, domain.OpShuffleDeck, domain.OpRoulette} {
		path := Path(op)
		item := doc.Paths.Value(path)
		if item == nil || item.Post == nil {
			return nil, fmt.Errorf("generator contract has no POST %s", path)
		}
		c.routes[op] = &routers.Route{
			Spec:      doc,
			Path:      path,
			PathItem:  item,
			Method:    http.MethodPost,
			Operation: item.Post,
		}
	}
	return c, nil
}

// Path is the endpoint path of op.
func Path(op domain.Operation) string {
	return "/api/demo/" + string(op)
}

// ValidateResponse checks a response body of op against the contract.
func (c *Contract) ValidateResponse(ctx context.Context, op domain.Operation, req *http.Request, status int, header http.Header, body []byte) error {
	route, ok := c.routes[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}
	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request: req,
			Route:   route,
		},
		Status: status,
		Header: header,
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}
	input.SetBodyBytes(body)
	return openapi3filter.ValidateResponse(ctx, input)
}

// ValidateRequest checks an incoming request of op against the contract.
// The request body is restored so handlers can still read it.
func (c *Contract) ValidateRequest(ctx context.Context, op domain.Operation, req *http.Request) error {
	route, ok := c.routes[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	err = openapi3filter.ValidateRequest(ctx, &openapi3filter.RequestValidationInput{
		Request: req,
		Route:   route,
	})
	req.Body = io.NopCloser(bytes.NewReader(body))
	return err
}
