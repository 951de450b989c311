package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Checkpoint tracks how far a batch run got through its address list.
type Checkpoint struct {
	Network   string `json:"network"`
	Total     int    `json:"total"`
	Digest    string `json:"digest"`
	NextIndex int    `json:"next_index"`
	RunID     string `json:"run_id"`
	UpdatedAt string `json:"updated_at"`
}

// Matches reports whether the checkpoint belongs to a run over the same
// network and the same ordered address list.
func (cp Checkpoint) Matches(network string, addresses []common.Address) bool {
	return cp.Network == network &&
		cp.Total == len(addresses) &&
		cp.Digest == AddressDigest(addresses) &&
		cp.NextIndex >= 0 && cp.NextIndex <= cp.Total
}

// AddressDigest fingerprints an ordered address list.
func AddressDigest(addresses []common.Address) string {
	data := make([]byte, 0, len(addresses)*common.AddressLength)
	for _, addr := range addresses {
		data = append(data, addr.Bytes()...)
	}
	return crypto.Keccak256Hash(data).Hex()
}

// CheckpointStore persists checkpoints to disk.
type CheckpointStore struct {
	path    string
	enabled bool
}

func NewCheckpointStore(path string, enabled bool) *CheckpointStore {
	return &CheckpointStore{path: path, enabled: enabled && path != ""}
}

func (c *CheckpointStore) Load() (Checkpoint, bool, error) {
	if !c.enabled {
		return Checkpoint{}, false, nil
	}

	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return Checkpoint{}, false, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint: %w", err)
	}

	return cp, true, nil
}

func (c *CheckpointStore) Save(cp Checkpoint) error {
	if !c.enabled {
		return nil
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	cp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}
