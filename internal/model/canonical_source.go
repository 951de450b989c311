package model

import (
	"encoding/json"
	"fmt"
)

const (
	LanguageSolidity = "Solidity"
	LanguageVyper    = "Vyper"
)

// Settings keys the classifier reads or writes.
const (
	SettingsOptimizer  = "optimizer"
	SettingsEVMVersion = "evmVersion"
	SettingsLibraries  = "libraries"
)

// CanonicalSource is the compiler input rebuilt from an explorer record,
// independent of how the explorer stored it.
type CanonicalSource struct {
	Sources map[string]string `json:"sources"`
	Options CompilerOptions   `json:"options"`
}

// CompilerOptions selects the compiler and its settings.
type CompilerOptions struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Settings Settings `json:"settings"`
}

// Settings is the compiler settings object. Values are kept as raw JSON so a
// full compiler input can be forwarded without losing keys.
type Settings map[string]json.RawMessage

// Optimizer is the optimizer section of the compiler settings.
type Optimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// Optimizer decodes the optimizer section, if present.
func (s Settings) Optimizer() (*Optimizer, error) {
	raw, ok := s[SettingsOptimizer]
	if !ok {
		return nil, nil
	}
	var opt Optimizer
	if err := json.Unmarshal(raw, &opt); err != nil {
		return nil, fmt.Errorf("decode optimizer: %w", err)
	}
	return &opt, nil
}

// EVMVersion returns the evmVersion setting, or "" when unset.
func (s Settings) EVMVersion() string {
	raw, ok := s[SettingsEVMVersion]
	if !ok {
		return ""
	}
	var version string
	if err := json.Unmarshal(raw, &version); err != nil {
		return ""
	}
	return version
}

// HasLibraries reports whether library linkage leaked into the settings.
func (s Settings) HasLibraries() bool {
	_, ok := s[SettingsLibraries]
	return ok
}

// MarshalJSON encodes a nil Settings as an empty object.
func (s Settings) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]json.RawMessage(s))
}
