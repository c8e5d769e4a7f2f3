package placement

import (
	"context"

	"github.com/dgridio/pcstore/blockstore"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// dims is the minimal view of the code grid's shape placement needs; it is
// satisfied by pcstore.Dimensions without placement importing the root
// package (which itself does not need placement), keeping the dependency
// one-directional.
type dims interface {
	Rows() int
	Cols() int
	RowCol(id int) (row, col int)
	BlockID(row, col int) int
}

// Engine holds the parameters of one placement run and the mapping it
// produces, per spec §4.4.
type Engine struct {
	Dim            dims
	Strategy       Strategy
	RackCount      int
	ServersPerRack int
	BasePort       int
	RackIPs        []string

	log     *zap.SugaredLogger
	mapping map[int]Entry
}

// NewEngine builds an Engine. If rackIPs is nil, every rack defaults to
// loopback (spec §6 "Defaults: all racks map to loopback, base_port=11211").
func NewEngine(dim dims, strategy Strategy, rackCount, serversPerRack, basePort int, rackIPs []string, log *zap.SugaredLogger) *Engine {
	if rackIPs == nil {
		rackIPs = make([]string, rackCount)
		for i := range rackIPs {
			rackIPs[i] = "127.0.0.1"
		}
	}
	if basePort == 0 {
		basePort = 11211
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		Dim:            dim,
		Strategy:       strategy,
		RackCount:      rackCount,
		ServersPerRack: serversPerRack,
		BasePort:       basePort,
		RackIPs:        rackIPs,
		log:            log,
	}
}

// GenerateMapping builds the id -> Entry map deterministically by
// dispatching to the registered generator for e.Strategy (spec §4.4).
func (e *Engine) GenerateMapping() error {
	gen, ok := strategies[e.Strategy]
	if !ok {
		return errors.Wrapf(ErrUnknownStrategy, "strategy %d", e.Strategy)
	}
	mapping, err := gen(e)
	if err != nil {
		return err
	}
	e.mapping = mapping
	e.log.Infow("placement mapping generated",
		"strategy", e.Strategy, "blocks", len(mapping), "racks", e.RackCount)
	return nil
}

// Get returns the placement entry for block id, or ErrUnknownBlock.
func (e *Engine) Get(id int) (Entry, error) {
	entry, ok := e.mapping[id]
	if !ok {
		return Entry{}, errors.Wrapf(ErrUnknownBlock, "id %d", id)
	}
	return entry, nil
}

// Address returns the (ip, port) a placement entry's server is reachable at.
func (e *Engine) Address(entry Entry) (ip string, port int) {
	return e.RackIPs[entry.Rack], e.BasePort + entry.ServerIndex
}

// WriteAllBlocks writes every block in encoded through store, to the
// (rack, server) its placement entry names. A block with no placement
// entry is counted as not-written without aborting the rest (spec §4.4).
func (e *Engine) WriteAllBlocks(ctx context.Context, encoded map[int][]byte, store blockstore.Store) int {
	success := 0
	for id, data := range encoded {
		entry, ok := e.mapping[id]
		if !ok {
			e.log.Warnw("missing placement entry for block", "id", id)
			continue
		}
		ip, port := e.Address(entry)
		if err := store.Set(ip, port, blockstore.Key(id), data); err != nil {
			e.log.Warnw("write failed", "id", id, "ip", ip, "port", port, "error", err)
			continue
		}
		success++
	}
	e.log.Infow("wrote blocks", "success", success, "total", len(encoded))
	return success
}

// roundRobinServers returns a helper that hands out server_index values
// 0..serversPerRack-1 per rack, in the order racks are first touched -
// the same "rack_next_srv[rack]++ % servers_per_rack" counter the original
// C++ strategies 2-7 use.
func roundRobinServers(serversPerRack int) func(rack int) int {
	next := make(map[int]int)
	return func(rack int) int {
		idx := next[rack] % serversPerRack
		next[rack]++
		return idx
	}
}
