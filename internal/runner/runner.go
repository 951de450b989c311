package runner

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sourceScope/internal/explorer"
	"sourceScope/internal/fetcher"
	"sourceScope/internal/model"
	"sourceScope/internal/network"
	"sourceScope/internal/storage"
)

// DefaultConcurrency bounds in-flight fetches when RunConfig leaves it unset.
const DefaultConcurrency = 4

// RunConfig holds runtime settings for a batch fetch.
type RunConfig struct {
	Network           string
	Addresses         []common.Address
	BatchSize         int
	Concurrency       int
	CheckpointPath    string
	CheckpointEnabled bool
	// RunID tags every record; a random id is generated when empty.
	RunID string
}

// CodeChecker is the optional on-chain pre-check used before hitting the explorer.
type CodeChecker interface {
	GetChainID(ctx context.Context) (*big.Int, error)
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

// Summary counts the outcomes of one run.
type Summary struct {
	RunID       string
	Total       int
	Processed   int
	Verified    int
	Unverified  int
	Unsupported int
	Failed      int
}

func (s *Summary) add(records []model.SourceRecord) {
	for _, rec := range records {
		s.Processed++
		switch rec.Status {
		case model.SourceStatusVerified:
			s.Verified++
		case model.SourceStatusUnverified:
			s.Unverified++
		case model.SourceStatusUnsupported:
			s.Unsupported++
		default:
			s.Failed++
		}
	}
}

// Runner fetches sources for a list of addresses and writes them to storage.
type Runner struct {
	cfg        RunConfig
	fetcher    fetcher.Fetcher
	chain      CodeChecker
	storage    storage.Storage
	logger     *zap.Logger
	checkpoint *CheckpointStore
	now        func() time.Time
}

// NewRunner builds a Runner with its dependencies. chainChecker may be nil.
func NewRunner(cfg RunConfig, f fetcher.Fetcher, chainChecker CodeChecker, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Runner{
		cfg:        cfg,
		fetcher:    f,
		chain:      chainChecker,
		storage:    storageSink,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
		now:        time.Now,
	}
}

// Run executes the batch loop. Per-address failures are recorded in the
// output; only setup, storage and checkpoint failures abort the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.fetcher == nil {
		return Summary{}, fmt.Errorf("fetcher is nil")
	}
	if r.storage == nil {
		return Summary{}, fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return Summary{}, fmt.Errorf("batch size must be greater than zero")
	}
	if len(r.cfg.Addresses) == 0 {
		return Summary{}, fmt.Errorf("at least one address is required")
	}
	if !r.fetcher.IsNetworkValid(ctx) {
		return Summary{}, fmt.Errorf("network '%s': %w", r.cfg.Network, explorer.ErrNetworkUnsupported)
	}
	net, err := network.Resolve(r.cfg.Network)
	if err != nil {
		return Summary{}, err
	}

	if r.chain != nil {
		chainID, err := r.chain.GetChainID(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("get chain id: %w", err)
		}
		if !chainID.IsUint64() || chainID.Uint64() != net.ChainID {
			return Summary{}, fmt.Errorf("rpc chain id %s does not match network %s (%d)", chainID, net.Name, net.ChainID)
		}
	}

	runID := r.cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	total := len(r.cfg.Addresses)
	digest := AddressDigest(r.cfg.Addresses)
	summary := Summary{RunID: runID, Total: total}

	from := 0
	cp, ok, err := r.checkpoint.Load()
	if err != nil {
		return summary, err
	}
	if ok {
		if cp.Matches(net.Name, r.cfg.Addresses) {
			from = cp.NextIndex
			r.logger.Info("resume from checkpoint", zap.Int("next_index", cp.NextIndex), zap.String("previous_run_id", cp.RunID))
		} else {
			r.logger.Warn("ignore checkpoint for different input", zap.String("checkpoint_network", cp.Network), zap.Int("checkpoint_total", cp.Total))
		}
	}

	if from >= total {
		r.logger.Info("nothing to fetch", zap.Int("from", from), zap.Int("total", total))
		return summary, nil
	}

	batches, err := SplitBatches(from, total, r.cfg.BatchSize)
	if err != nil {
		return summary, err
	}

	r.logger.Info("run start",
		zap.String("run_id", runID),
		zap.String("fetcher", r.fetcher.Name()),
		zap.Int("addresses", total),
		zap.Int("from", from),
		zap.Int("batches", len(batches)),
		zap.Int("concurrency", r.cfg.Concurrency),
	)

	base := model.SourceRecord{
		RunID:   runID,
		Network: net.Name,
		ChainID: net.ChainID,
		Fetcher: r.fetcher.Name(),
	}

	for _, batch := range batches {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		records, err := r.fetchBatch(ctx, base, r.cfg.Addresses[batch.From:batch.To])
		if err != nil {
			return summary, err
		}

		if err := r.storage.PutSourceBatch(ctx, records); err != nil {
			return summary, fmt.Errorf("store sources: %w", err)
		}

		if err := r.checkpoint.Save(Checkpoint{
			Network:   net.Name,
			Total:     total,
			Digest:    digest,
			NextIndex: batch.To,
			RunID:     runID,
		}); err != nil {
			return summary, err
		}

		summary.add(records)
		r.logger.Info("batch complete", zap.Int("from", batch.From), zap.Int("to", batch.To), zap.Int("records", len(records)))
	}

	r.logger.Info("run complete",
		zap.String("run_id", runID),
		zap.Int("processed", summary.Processed),
		zap.Int("verified", summary.Verified),
		zap.Int("unverified", summary.Unverified),
		zap.Int("unsupported", summary.Unsupported),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// fetchBatch looks up every address concurrently; records keep input order.
func (r *Runner) fetchBatch(ctx context.Context, base model.SourceRecord, addresses []common.Address) ([]model.SourceRecord, error) {
	records := make([]model.SourceRecord, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, addr := range addresses {
		g.Go(func() error {
			rec := r.lookup(gctx, base, addr)
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Runner) lookup(ctx context.Context, base model.SourceRecord, addr common.Address) model.SourceRecord {
	base.Address = addr.Hex()

	if r.chain != nil {
		hasCode, err := r.chain.HasCode(ctx, addr)
		if err != nil {
			r.logger.Warn("code check failed", zap.String("address", base.Address), zap.Error(err))
			return buildSourceRecord(base, nil, err, r.now())
		}
		if !hasCode {
			return buildSourceRecord(base, nil, errNoCode, r.now())
		}
	}

	src, err := r.fetcher.FetchSourcesForAddress(ctx, base.Address)
	if err != nil {
		r.logger.Warn("fetch sources failed", zap.String("address", base.Address), zap.Error(err))
	}
	return buildSourceRecord(base, src, err, r.now())
}
