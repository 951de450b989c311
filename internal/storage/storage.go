package storage

import (
	"context"
	"fmt"

	"sourceScope/internal/model"
)

// Storage defines a sink for fetched source records.
type Storage interface {
	PutSourceBatch(ctx context.Context, records []model.SourceRecord) error
}

// Multi writes every batch to each sink in order, stopping at the first error.
type Multi []Storage

func (m Multi) PutSourceBatch(ctx context.Context, records []model.SourceRecord) error {
	for i, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutSourceBatch(ctx, records); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}
