package model

import (
	"encoding/json"
	"fmt"
)

const (
	// StatusOK is the envelope status of a successful explorer response.
	StatusOK = "1"
	// StatusNotOK is the envelope status of a failed explorer response.
	StatusNotOK = "0"
)

// Envelope is the top-level explorer API response.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// IsOK reports whether the explorer marked the response as successful.
func (e Envelope) IsOK() bool {
	return e.Status == StatusOK
}

// Records decodes the result of a successful response.
func (e Envelope) Records() ([]RawRecord, error) {
	if len(e.Result) == 0 {
		return nil, nil
	}
	var records []RawRecord
	if err := json.Unmarshal(e.Result, &records); err != nil {
		return nil, fmt.Errorf("decode result records: %w", err)
	}
	return records, nil
}

// ErrorText returns the human readable failure reason of a failed response.
// Explorers put the detail in result as a plain string and a generic
// "NOTOK" in message.
func (e Envelope) ErrorText() string {
	var text string
	if err := json.Unmarshal(e.Result, &text); err == nil && text != "" {
		return text
	}
	if e.Message != "" {
		return e.Message
	}
	return "explorer returned status " + e.Status
}

// RawRecord is one contract entry of a getsourcecode response. Every field is
// a string on the wire.
type RawRecord struct {
	SourceCode           string `json:"SourceCode"`
	ABI                  string `json:"ABI"`
	ContractName         string `json:"ContractName"`
	CompilerVersion      string `json:"CompilerVersion"`
	OptimizationUsed     string `json:"OptimizationUsed"`
	Runs                 string `json:"Runs"`
	ConstructorArguments string `json:"ConstructorArguments"`
	EVMVersion           string `json:"EVMVersion"`

	// Decoded for completeness, never copied into a CanonicalSource.
	Library        string `json:"Library"`
	LicenseType    string `json:"LicenseType"`
	Proxy          string `json:"Proxy"`
	Implementation string `json:"Implementation"`
	SwarmSource    string `json:"SwarmSource"`
}
