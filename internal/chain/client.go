package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps go-ethereum RPC for the pre-fetch contract checks.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client

	mu        sync.RWMutex
	codeCache map[common.Address]bool
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		codeCache: make(map[common.Address]bool),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// GetChainID returns the chain ID.
func (c *Client) GetChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// HasCode reports whether address has deployed bytecode at the latest block,
// using an in-memory cache. Only positive answers are cached since an empty
// account may still receive a deployment.
func (c *Client) HasCode(ctx context.Context, address common.Address) (bool, error) {
	c.mu.RLock()
	ok := c.codeCache[address]
	c.mu.RUnlock()
	if ok {
		return true, nil
	}

	code, err := c.ethClient.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("get code %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return false, nil
	}

	c.mu.Lock()
	c.codeCache[address] = true
	c.mu.Unlock()
	return true, nil
}
