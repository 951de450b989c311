// Package fetcher retrieves verified contract sources from block explorers.
package fetcher

import (
	"context"

	"sourceScope/internal/model"
)

// Fetcher is a source provider for the decoding pipeline.
type Fetcher interface {
	// Name identifies the provider.
	Name() string
	// IsNetworkValid reports whether the provider serves the configured network.
	IsNetworkValid(ctx context.Context) bool
	// FetchSourcesForAddress returns the canonical source of a contract, or
	// nil when the provider has no verified source for it.
	FetchSourcesForAddress(ctx context.Context, address string) (*model.CanonicalSource, error)
}
