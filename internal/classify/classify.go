package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"sourceScope/internal/model"
)

const (
	// NotVerifiedABI is the ABI field explorers return for unverified contracts.
	NotVerifiedABI = "Contract source code not verified"
	// DefaultEVMVersion means "use the compiler default".
	DefaultEVMVersion = "Default"

	vyperPrefix    = "vyper"
	solidityExt    = ".sol"
	optimizerOnStr = "1"
)

// ErrInvalidRuns is returned when the optimizer runs field is not an integer.
var ErrInvalidRuns = errors.New("invalid optimizer runs")

// Kind names the record shape that produced a CanonicalSource.
type Kind int

const (
	KindUnverified Kind = iota
	KindVyper
	KindSingleFile
	KindStandardJSON
	KindMultiFile
)

func (k Kind) String() string {
	switch k {
	case KindUnverified:
		return "unverified"
	case KindVyper:
		return "vyper"
	case KindSingleFile:
		return "single-file"
	case KindStandardJSON:
		return "standard-json"
	case KindMultiFile:
		return "multi-file"
	default:
		return "unknown"
	}
}

// Classify converts an explorer record into a CanonicalSource. A nil result
// with a nil error means the contract has no verified source.
func Classify(record model.RawRecord) (*model.CanonicalSource, error) {
	src, _, err := ClassifyKind(record)
	return src, err
}

// ClassifyKind is Classify that also reports which shape matched. Shapes are
// checked in a fixed order and the first match wins.
func ClassifyKind(record model.RawRecord) (*model.CanonicalSource, Kind, error) {
	if isUnverified(record) {
		return nil, KindUnverified, nil
	}
	// Must run before any JSON parsing: Vyper source is plain text and would
	// otherwise be labelled Solidity by the single-file case.
	if isVyper(record) {
		return vyperSource(), KindVyper, nil
	}

	doc, ok := parseSourceObject(record.SourceCode)
	if !ok {
		src, err := singleFileSource(record)
		return src, KindSingleFile, err
	}
	if doc.Get("language").String() == model.LanguageSolidity {
		return standardJSONSource(record, doc), KindStandardJSON, nil
	}
	src, err := multiFileSource(record, doc)
	return src, KindMultiFile, err
}

func isUnverified(record model.RawRecord) bool {
	return record.SourceCode == "" && record.ABI == NotVerifiedABI
}

func isVyper(record model.RawRecord) bool {
	return strings.HasPrefix(record.CompilerVersion, vyperPrefix)
}

// parseSourceObject parses the source field as a JSON object. Explorers wrap
// standard JSON input in a second pair of braces, which is removed first.
func parseSourceObject(text string) (gjson.Result, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}") {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	if !gjson.Valid(trimmed) {
		return gjson.Result{}, false
	}
	doc := gjson.Parse(trimmed)
	if !doc.IsObject() {
		return gjson.Result{}, false
	}
	return doc, true
}

func vyperSource() *model.CanonicalSource {
	return &model.CanonicalSource{
		Sources: map[string]string{},
		Options: model.CompilerOptions{
			Language: model.LanguageVyper,
			Version:  "",
			Settings: model.Settings{},
		},
	}
}

func singleFileSource(record model.RawRecord) (*model.CanonicalSource, error) {
	settings, err := flatSettings(record)
	if err != nil {
		return nil, err
	}
	return &model.CanonicalSource{
		Sources: map[string]string{
			Normalize(record.ContractName + solidityExt): record.SourceCode,
		},
		Options: solidityOptions(record, settings),
	}, nil
}

func multiFileSource(record model.RawRecord, doc gjson.Result) (*model.CanonicalSource, error) {
	settings, err := flatSettings(record)
	if err != nil {
		return nil, err
	}
	return &model.CanonicalSource{
		Sources: collectSources(doc),
		Options: solidityOptions(record, settings),
	}, nil
}

func standardJSONSource(record model.RawRecord, doc gjson.Result) *model.CanonicalSource {
	settings := model.Settings{}
	doc.Get("settings").ForEach(func(key, value gjson.Result) bool {
		// Linked library addresses are dropped so recompilation yields
		// unlinked bytecode.
		if key.String() == model.SettingsLibraries {
			return true
		}
		settings[key.String()] = json.RawMessage(value.Raw)
		return true
	})

	return &model.CanonicalSource{
		Sources: collectSources(doc.Get("sources")),
		Options: solidityOptions(record, settings),
	}
}

func collectSources(doc gjson.Result) map[string]string {
	sources := make(map[string]string)
	doc.ForEach(func(key, value gjson.Result) bool {
		sources[Normalize(key.String())] = value.Get("content").String()
		return true
	})
	return sources
}

func solidityOptions(record model.RawRecord, settings model.Settings) model.CompilerOptions {
	return model.CompilerOptions{
		Language: model.LanguageSolidity,
		Version:  record.CompilerVersion,
		Settings: settings,
	}
}

// flatSettings builds settings from the record's top-level compiler fields.
func flatSettings(record model.RawRecord) (model.Settings, error) {
	runs, err := parseRuns(record.Runs)
	if err != nil {
		return nil, err
	}

	optimizer, err := json.Marshal(model.Optimizer{
		Enabled: record.OptimizationUsed == optimizerOnStr,
		Runs:    runs,
	})
	if err != nil {
		return nil, fmt.Errorf("encode optimizer: %w", err)
	}
	settings := model.Settings{model.SettingsOptimizer: optimizer}

	if record.EVMVersion != "" && record.EVMVersion != DefaultEVMVersion {
		version, err := json.Marshal(record.EVMVersion)
		if err != nil {
			return nil, fmt.Errorf("encode evm version: %w", err)
		}
		settings[model.SettingsEVMVersion] = version
	}
	return settings, nil
}

func parseRuns(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	runs, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRuns, value)
	}
	return runs, nil
}
