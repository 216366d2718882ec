// Package http is the HTTP/JSON adapter for the remote generator service.
//
// Every 2xx response is validated against the embedded OpenAPI document
// (openapi.yaml) before it is decoded; contract violations surface as
// domain.ErrMalformedResponse.
package http
