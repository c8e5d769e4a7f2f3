package bench

import (
	"context"
	"math/rand"
	"time"

	pcstore "github.com/dgridio/pcstore"
	"github.com/dgridio/pcstore/blockstore"
	"github.com/dgridio/pcstore/placement"
	"github.com/dgridio/pcstore/repair"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config parameterizes one benchmark run, mirroring the parameters
// original_source/main.cpp reads from stdin.
type Config struct {
	Dim            pcstore.Dimensions
	BlockSize      int
	Strategy       placement.Strategy
	RackCount      int
	ServersPerRack int
	MaxSetSize     int
	CapPerSize     int
	RandSeed       int64
}

// Summary aggregates the outcome of every planned/executed repair in a run.
type Summary struct {
	TotalCombinations   int
	SuccessfulRepairs   int
	AverageRepairTimeMS float64
}

// Run encodes a randomly generated payload, places it, then for each
// enumerated failure combination plans and executes a repair, reporting
// aggregate success and timing. store is expected to be wired to a real
// (or test) memcached cluster; Run does not create one itself.
func Run(ctx context.Context, cfg Config, store blockstore.Store, log *zap.SugaredLogger) (Summary, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := cfg.Dim.Validate(); err != nil {
		return Summary{}, err
	}

	rng := rand.New(rand.NewSource(cfg.RandSeed))
	data := make([][]byte, cfg.Dim.DataBlocks())
	for i := range data {
		block := make([]byte, cfg.BlockSize)
		rng.Read(block)
		data[i] = block
	}

	encoded, err := pcstore.Encode(data, cfg.Dim, cfg.BlockSize)
	if err != nil {
		return Summary{}, errors.Wrap(err, "bench: encoding payload")
	}
	log.Infow("encoding done", "encoded_blocks", len(encoded))

	eng := placement.NewEngine(cfg.Dim, cfg.Strategy, cfg.RackCount, cfg.ServersPerRack, 0, nil, log)
	if err := eng.GenerateMapping(); err != nil {
		return Summary{}, errors.Wrap(err, "bench: generating placement")
	}

	written := eng.WriteAllBlocks(ctx, encoded, store)
	log.Infow("blocks written", "success", written, "total", len(encoded))

	failureSets := Enumerate(cfg.Dim.DataBlocks(), cfg.MaxSetSize, cfg.CapPerSize)

	summary := Summary{TotalCombinations: len(failureSets)}
	var totalTime time.Duration

	for _, localIDs := range failureSets {
		failed := make([]int, len(localIDs))
		for i, local := range localIDs {
			row, col := local/cfg.Dim.K1, local%cfg.Dim.K1
			failed[i] = cfg.Dim.BlockID(row, col)
		}

		start := time.Now()
		plan, err := repair.Plan(failed, cfg.Dim, eng)
		if err != nil {
			log.Debugw("repair not planned", "failed", failed, "error", err)
			continue
		}
		if err := repair.RepairAndSet(ctx, plan, failed, cfg.Dim, eng, store, cfg.BlockSize, log); err != nil {
			log.Debugw("repair execution failed", "failed", failed, "error", err)
			continue
		}
		elapsed := time.Since(start)
		totalTime += elapsed
		summary.SuccessfulRepairs++
	}

	if summary.SuccessfulRepairs > 0 {
		summary.AverageRepairTimeMS = float64(totalTime.Milliseconds()) / float64(summary.SuccessfulRepairs)
	}
	return summary, nil
}
