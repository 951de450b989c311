package model

// Fetch outcomes recorded per address.
const (
	SourceStatusVerified    = "verified"
	SourceStatusUnverified  = "unverified"
	SourceStatusUnsupported = "unsupported"
	SourceStatusError       = "error"
)

// SourceRecord is the stored result of one address lookup.
type SourceRecord struct {
	RunID     string           `json:"run_id"`
	Network   string           `json:"network"`
	ChainID   uint64           `json:"chain_id"`
	Address   string           `json:"address"`
	Fetcher   string           `json:"fetcher"`
	Status    string           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Source    *CanonicalSource `json:"source,omitempty"`
	FetchedAt string           `json:"fetched_at"`
}
