package repair

import (
	"context"
	"sync"

	pcstore "github.com/dgridio/pcstore"
	"github.com/dgridio/pcstore/blockstore"
	"github.com/dgridio/pcstore/coding"
	"github.com/dgridio/pcstore/gf256"
	"github.com/dgridio/pcstore/placement"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	repairDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pcstore_repair_duration_seconds",
		Help:    "Time spent executing a full repair plan.",
		Buckets: prometheus.DefBuckets,
	})
	repairStepsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcstore_repair_steps_total",
		Help: "Repair plan steps executed, by type and outcome.",
	}, []string{"type", "outcome"})
)

func init() {
	prometheus.MustRegister(repairDuration, repairStepsTotal)
}

// RepairAndSet executes plan in order against store, writing each recovered
// block back to its existing placement entry (no relocation), per spec
// §4.5. It returns the first error encountered; steps already written stay
// written, since writes are idempotent (original_source/src/repair/
// repair.cpp's repair_and_set does not roll back on partial failure).
func RepairAndSet(ctx context.Context, plan []Action, failed []int, dim pcstore.Dimensions, eng *placement.Engine, store blockstore.Store, blockSize int, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	timer := prometheus.NewTimer(repairDuration)
	defer timer.ObserveDuration()

	missing := make(map[int]bool, len(failed))
	for _, id := range failed {
		missing[id] = true
	}

	for _, action := range plan {
		var err error
		switch action.Type {
		case RowAction:
			err = decodeAndWrite(ctx, dim.RowPeers(action.Index), dim.K1, dim.ParityM1(), true, missing, eng, store, blockSize)
		case ColumnAction:
			err = decodeAndWrite(ctx, dim.ColumnPeers(action.Index), dim.K2, dim.ParityM2(), false, missing, eng, store, blockSize)
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		repairStepsTotal.WithLabelValues(action.Type.String(), outcome).Inc()
		if err != nil {
			return errors.Wrapf(err, "repair: executing %s action at index %d", action.Type, action.Index)
		}
		log.Debugw("repair step complete", "type", action.Type.String(), "index", action.Index, "cost", action.Cost)
	}
	return nil
}

// decodeAndWrite decodes one row or column: reads the surviving peers
// (trimmed to k, since systematic RS(k,m) needs exactly k symbols), solves
// for the data vectors, recomputes any missing parity blocks, and writes
// every recovered peer back to its placement entry. It mutates missing to
// drop any peer id it successfully recovers.
func decodeAndWrite(ctx context.Context, peers []int, k, m int, isRow bool, missing map[int]bool, eng *placement.Engine, store blockstore.Store, blockSize int) error {
	var needed, survivorIDs []int
	for _, id := range peers {
		if missing[id] {
			needed = append(needed, id)
		} else {
			survivorIDs = append(survivorIDs, id)
		}
	}
	if len(needed) == 0 {
		return nil
	}
	if len(survivorIDs) < k {
		return errors.Wrapf(ErrInsufficientSurvivors, "have %d survivors, need %d", len(survivorIDs), k)
	}
	survivorIDs = survivorIDs[:k]

	survivorData, err := readSurvivors(ctx, survivorIDs, eng, store)
	if err != nil {
		return err
	}

	localIndex := func(id int) int {
		row, col := rowColOf(id, eng)
		if isRow {
			return col
		}
		return row
	}

	g := coding.GeneratorMatrix(k, m)
	a := make([][]byte, k)
	b := make([][]byte, k)
	for i, id := range survivorIDs {
		a[i] = g[localIndex(id)]
		b[i] = survivorData[id]
	}

	data, err := gf256.SolveLinearSystem(a, b)
	if err != nil {
		return errors.Wrap(err, "repair: decoding survivor set")
	}

	for _, id := range needed {
		idx := localIndex(id)
		var recovered []byte
		if idx < k {
			recovered = data[idx]
		} else {
			recovered = make([]byte, blockSize)
			row := g[idx]
			for j := 0; j < k; j++ {
				xorScaled(recovered, data[j], row[j])
			}
		}
		entry, err := eng.Get(id)
		if err != nil {
			return err
		}
		ip, port := eng.Address(entry)
		if err := store.Set(ip, port, blockstore.Key(id), recovered); err != nil {
			return errors.Wrapf(err, "repair: writing recovered block %d", id)
		}
		delete(missing, id)
	}
	return nil
}

// readSurvivors fetches every survivor block in parallel via errgroup,
// mirroring original_source/src/repair/repair.cpp's std::async fan-out.
func readSurvivors(ctx context.Context, ids []int, eng *placement.Engine, store blockstore.Store) (map[int][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make(map[int][]byte, len(ids))
	var mu sync.Mutex

	for _, id := range ids {
		id := id
		g.Go(func() error {
			entry, err := eng.Get(id)
			if err != nil {
				return err
			}
			ip, port := eng.Address(entry)
			data, found, err := store.Get(ip, port, blockstore.Key(id))
			if err != nil {
				return errors.Wrapf(err, "repair: reading survivor block %d", id)
			}
			if !found {
				return errors.Wrapf(ErrInsufficientSurvivors, "survivor block %d missing from store", id)
			}
			mu.Lock()
			results[id] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func rowColOf(id int, eng *placement.Engine) (row, col int) {
	entry, err := eng.Get(id)
	if err != nil {
		return 0, 0
	}
	return entry.Row, entry.Col
}

func xorScaled(dst, src []byte, coef byte) {
	for i := range dst {
		dst[i] ^= gf256.Mul(coef, src[i])
	}
}
