package repair

import (
	"math/bits"
	"strconv"

	pcstore "github.com/dgridio/pcstore"
	"github.com/dgridio/pcstore/placement"
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"
	"github.com/pkg/errors"
)

// transitionKey identifies one edge of the subset graph: from bitmask
// "from" to bitmask "from|Recovered" via a single Action.
type transitionKey struct {
	from, to int
}

// Plan computes the minimum cross-rack-read-cost sequence of row/column
// decodes that recovers every id in failed, given the current placement
// mapping. It returns ErrTooManyFailures if len(failed) > MaxFailedBlocks,
// and ErrUnrepairable if no such sequence exists.
func Plan(failed []int, dim pcstore.Dimensions, eng *placement.Engine) ([]Action, error) {
	n := len(failed)
	if n == 0 {
		return nil, nil
	}
	if n > MaxFailedBlocks {
		return nil, errors.Wrapf(ErrTooManyFailures, "got %d, max %d", n, MaxFailedBlocks)
	}

	targetMask := (1 << uint(n)) - 1
	best := make(map[transitionKey]Action)

	for mask := 0; mask < targetMask; mask++ {
		actions, err := candidateActions(mask, failed, dim, eng)
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			key := transitionKey{from: mask, to: mask | int(a.Recovered)}
			if cur, ok := best[key]; !ok || a.Cost < cur.Cost {
				best[key] = a
			}
		}
	}

	g := core.NewGraph(core.WithWeighted(), core.WithDirected(true))
	for v := 0; v <= targetMask; v++ {
		if err := g.AddVertex(strconv.Itoa(v)); err != nil {
			return nil, errors.Wrap(err, "repair: adding planning vertex")
		}
	}
	for key, a := range best {
		if _, err := g.AddEdge(strconv.Itoa(key.from), strconv.Itoa(key.to), int64(a.Cost)); err != nil {
			return nil, errors.Wrap(err, "repair: adding planning edge")
		}
	}

	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source("0"), dijkstra.WithReturnPath())
	if err != nil {
		return nil, errors.Wrap(err, "repair: shortest-path search failed")
	}

	targetVertex := strconv.Itoa(targetMask)
	if _, reached := dist[targetVertex]; !reached {
		return nil, ErrUnrepairable
	}

	path := []string{targetVertex}
	cur := targetVertex
	for cur != "0" {
		p, ok := prev[cur]
		if !ok {
			return nil, ErrUnrepairable
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	actions := make([]Action, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		from, _ := strconv.Atoi(path[i])
		to, _ := strconv.Atoi(path[i+1])
		a, ok := best[transitionKey{from: from, to: to}]
		if !ok {
			return nil, errors.New("repair: planned transition has no recorded action")
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// candidateActions enumerates, for the given mask of already-recovered
// failed indices, every row/column decode that would recover one or more
// still-missing failed blocks without exceeding that code's parity budget.
func candidateActions(mask int, failed []int, dim pcstore.Dimensions, eng *placement.Engine) ([]Action, error) {
	m1 := dim.ParityM1()
	m2 := dim.ParityM2()

	rowBits := make(map[int]uint64)
	colBits := make(map[int]uint64)
	stillMissing := make(map[int]bool)
	for i, id := range failed {
		if mask&(1<<uint(i)) != 0 {
			continue
		}
		row, col := dim.RowCol(id)
		rowBits[row] |= 1 << uint(i)
		colBits[col] |= 1 << uint(i)
		stillMissing[id] = true
	}

	var actions []Action
	for row, newBits := range rowBits {
		if bits.OnesCount64(newBits) > m1 {
			continue
		}
		cost, err := rowActionCost(row, newBits, failed, dim, eng, stillMissing)
		if err != nil {
			return nil, err
		}
		actions = append(actions, Action{Type: RowAction, Index: row, Cost: cost, Recovered: newBits})
	}
	for col, newBits := range colBits {
		if bits.OnesCount64(newBits) > m2 {
			continue
		}
		cost, err := colActionCost(col, newBits, failed, dim, eng, stillMissing)
		if err != nil {
			return nil, err
		}
		actions = append(actions, Action{Type: ColumnAction, Index: col, Cost: cost, Recovered: newBits})
	}
	return actions, nil
}

// rowActionCost counts the cross-rack reads a row decode at row would
// require: every surviving peer in the row not on the rack of the first
// newly recovered block.
func rowActionCost(row int, newBits uint64, failed []int, dim pcstore.Dimensions, eng *placement.Engine, stillMissing map[int]bool) (int, error) {
	firstIdx := bits.TrailingZeros64(newBits)
	targetEntry, err := eng.Get(failed[firstIdx])
	if err != nil {
		return 0, err
	}
	return peerCost(dim.RowPeers(row), targetEntry.Rack, stillMissing, eng)
}

func colActionCost(col int, newBits uint64, failed []int, dim pcstore.Dimensions, eng *placement.Engine, stillMissing map[int]bool) (int, error) {
	firstIdx := bits.TrailingZeros64(newBits)
	targetEntry, err := eng.Get(failed[firstIdx])
	if err != nil {
		return 0, err
	}
	return peerCost(dim.ColumnPeers(col), targetEntry.Rack, stillMissing, eng)
}

func peerCost(peers []int, targetRack int, stillMissing map[int]bool, eng *placement.Engine) (int, error) {
	cost := 0
	for _, id := range peers {
		if stillMissing[id] {
			continue
		}
		entry, err := eng.Get(id)
		if err != nil {
			return 0, err
		}
		if entry.Rack != targetRack {
			cost++
		}
	}
	return cost, nil
}
