package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"sourceScope/internal/classify"
	"sourceScope/internal/explorer"
	"sourceScope/internal/model"
	"sourceScope/internal/network"
)

// EtherscanName is the provider name reported by Etherscan fetchers.
const EtherscanName = "etherscan"

// ErrInvalidAddress is returned for addresses that are not 20-byte hex.
var ErrInvalidAddress = errors.New("invalid address")

// EtherscanConfig configures an Etherscan fetcher.
type EtherscanConfig struct {
	Network string
	APIKey  string
	// Domain overrides explorer.DefaultDomain.
	Domain string
	// BaseURL overrides the API root derived from Network and Domain.
	BaseURL    string
	HTTPClient *http.Client
	// Attempts overrides DefaultAttempts.
	Attempts int
}

// Etherscan fetches sources from an Etherscan-compatible explorer. Its
// configuration is fixed at construction; the dispatch gate is the only state
// shared between concurrent calls.
type Etherscan struct {
	networkName string
	network     network.Network
	valid       bool
	apiKey      string
	attempts    int

	client *explorer.Client
	gate   *Gate
	logger *zap.Logger
}

var _ Fetcher = (*Etherscan)(nil)

// NewEtherscan builds a fetcher for cfg.Network. An unsupported network still
// yields a fetcher; IsNetworkValid reports false and fetches fail fast.
func NewEtherscan(cfg EtherscanConfig, logger *zap.Logger) *Etherscan {
	if logger == nil {
		logger = zap.NewNop()
	}
	domain := cfg.Domain
	if domain == "" {
		domain = explorer.DefaultDomain
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	e := &Etherscan{
		networkName: cfg.Network,
		apiKey:      cfg.APIKey,
		attempts:    attempts,
		gate:        NewGate(IntervalFor(cfg.APIKey)),
		logger:      logger.With(zap.String("fetcher", EtherscanName), zap.String("network", cfg.Network)),
	}

	n, err := network.Resolve(cfg.Network)
	if err == nil {
		e.network = n
		e.valid = true
	}

	baseURL := cfg.BaseURL
	if baseURL == "" && e.valid {
		baseURL = n.APIBaseURL(domain)
	}
	e.client = explorer.NewClient(baseURL, cfg.APIKey, cfg.HTTPClient)
	return e
}

// Name returns EtherscanName.
func (e *Etherscan) Name() string {
	return EtherscanName
}

// IsNetworkValid reports whether the configured network resolved to a supported one.
func (e *Etherscan) IsNetworkValid(_ context.Context) bool {
	return e.valid
}

// Network returns the resolved network; the zero value if unsupported.
func (e *Etherscan) Network() network.Network {
	return e.network
}

// Interval returns the dispatch spacing in effect.
func (e *Etherscan) Interval() time.Duration {
	return e.gate.Interval()
}

// FetchSourcesForAddress performs one gated, retried lookup and classifies
// the first returned record.
func (e *Etherscan) FetchSourcesForAddress(ctx context.Context, address string) (*model.CanonicalSource, error) {
	if !e.valid {
		return nil, fmt.Errorf("network '%s': %w", e.networkName, explorer.ErrNetworkUnsupported)
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	address = common.HexToAddress(address).Hex()

	var records []model.RawRecord
	err := withRetry(ctx, e.attempts, func(ctx context.Context, attempt int) error {
		if err := e.gate.Wait(ctx); err != nil {
			return err
		}
		var err error
		records, err = e.client.GetSourceCode(ctx, address)
		if err != nil {
			e.logger.Warn("source lookup failed",
				zap.String("address", address),
				zap.Int("attempt", attempt),
				zap.Int("attempts", e.attempts),
				zap.Error(err),
			)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		e.logger.Debug("empty result", zap.String("address", address))
		return nil, nil
	}

	src, kind, err := classify.ClassifyKind(records[0])
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", address, err)
	}
	e.logger.Debug("source classified",
		zap.String("address", address),
		zap.Stringer("kind", kind),
		zap.Int("files", sourceCount(src)),
	)
	return src, nil
}

func sourceCount(src *model.CanonicalSource) int {
	if src == nil {
		return 0
	}
	return len(src.Sources)
}
