package network

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNetworkNotFound is returned for identifiers outside the supported set.
var ErrNetworkNotFound = errors.New("network not found")

// Network is an explorer-backed chain.
type Network struct {
	Name    string
	ChainID uint64
	// Suffix is appended to the "api" host label, "" for mainnet.
	Suffix string
}

// APIBaseURL returns the explorer API root for the given explorer domain,
// e.g. https://api-goerli.etherscan.io.
func (n Network) APIBaseURL(domain string) string {
	return fmt.Sprintf("https://api%s.%s", n.Suffix, domain)
}

var supportedNetworks = []Network{
	{Name: "mainnet", ChainID: 1, Suffix: ""},
	{Name: "ropsten", ChainID: 3, Suffix: "-ropsten"},
	{Name: "rinkeby", ChainID: 4, Suffix: "-rinkeby"},
	{Name: "goerli", ChainID: 5, Suffix: "-goerli"},
	{Name: "kovan", ChainID: 42, Suffix: "-kovan"},
}

var networksByName = newNetworkIndex(supportedNetworks)

func newNetworkIndex(list []Network) map[string]Network {
	index := make(map[string]Network, len(list))
	for _, n := range list {
		if _, found := index[n.Name]; found {
			panic(fmt.Errorf("network with name '%s' already exists", n.Name))
		}
		index[n.Name] = n
	}
	return index
}

// Resolve looks up a supported network by name.
func Resolve(name string) (Network, error) {
	n, found := networksByName[strings.TrimSpace(name)]
	if !found {
		return Network{}, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return n, nil
}

// IsSupported reports whether name is in the supported set.
func IsSupported(name string) bool {
	_, err := Resolve(name)
	return err == nil
}

// Supported returns the supported networks ordered by chain id.
func Supported() []Network {
	out := make([]Network, len(supportedNetworks))
	copy(out, supportedNetworks)
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// Names returns the supported network names ordered by chain id.
func Names() []string {
	list := Supported()
	names := make([]string, 0, len(list))
	for _, n := range list {
		names = append(names, n.Name)
	}
	return names
}
