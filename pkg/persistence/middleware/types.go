// Package middleware decorates a ports.KeyValueStore with extra behavior,
// such as encryption at rest.
package middleware

import "github.com/aretw0/bbsdemo/pkg/ports"

// Middleware allows wrapping a KeyValueStore to add behavior.
type Middleware func(ports.KeyValueStore) ports.KeyValueStore

// Chain applies mws to store, the first one outermost.
func Chain(store ports.KeyValueStore, mws ...Middleware) ports.KeyValueStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
