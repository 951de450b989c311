package runner

import "fmt"

// Batch is a half-open index range [From, To) into the address list.
type Batch struct {
	From int
	To   int
}

// SplitBatches splits [from, to) into batches of at most batchSize.
func SplitBatches(from, to, batchSize int) ([]Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if from < 0 || to < from {
		return nil, fmt.Errorf("invalid range [%d, %d)", from, to)
	}

	batches := make([]Batch, 0, (to-from+batchSize-1)/batchSize)
	for start := from; start < to; start += batchSize {
		end := start + batchSize
		if end > to {
			end = to
		}
		batches = append(batches, Batch{From: start, To: end})
	}
	return batches, nil
}
