package runner

import (
	"errors"
	"time"

	"sourceScope/internal/explorer"
	"sourceScope/internal/model"
)

// errNoCode marks addresses the chain reports as having no bytecode.
var errNoCode = errors.New("no contract code")

func buildSourceRecord(base model.SourceRecord, src *model.CanonicalSource, err error, fetchedAt time.Time) model.SourceRecord {
	rec := base
	rec.FetchedAt = fetchedAt.UTC().Format(time.RFC3339Nano)

	switch {
	case errors.Is(err, explorer.ErrNetworkUnsupported):
		rec.Status = model.SourceStatusUnsupported
		rec.Error = err.Error()
	case err != nil:
		rec.Status = model.SourceStatusError
		rec.Error = err.Error()
	case src == nil:
		rec.Status = model.SourceStatusUnverified
	case src.Options.Language == model.LanguageVyper:
		rec.Status = model.SourceStatusUnsupported
		rec.Source = src
	default:
		rec.Status = model.SourceStatusVerified
		rec.Source = src
	}
	return rec
}
