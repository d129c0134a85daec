// Package middleware wraps net stores with cross-cutting behaviour.
package middleware

import "github.com/aretw0/inet/pkg/ports"

// Middleware allows wrapping a NetStore to add behavior.
type Middleware func(ports.NetStore) ports.NetStore

// Chain applies middlewares so that the first one listed is outermost.
func Chain(store ports.NetStore, mws ...Middleware) ports.NetStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
