// Package repair implements the shortest-path repair planner and executor
// of spec §4.5/§9: given a set of failed block ids, find the minimum-cost
// sequence of row/column RS decodes that recovers them all, then execute
// that plan against a block store and placement mapping.
//
// The planner is grounded on original_source/src/repair/repair.cpp's
// plan_optimal_repair - a Dijkstra/DP search over subsets of the failed set
// - not on the teacher's (rsmt2d) solveCrossword loop-until-settled
// approach, nor on the vestigial per-strategy dispatch in
// repair_strategy1.cpp; the bitmask-over-subsets idea is expressed here as
// an explicit weighted graph run through github.com/katalvlaran/lvlath's
// Dijkstra implementation rather than a hand-rolled priority queue.
package repair

import "github.com/pkg/errors"

// ActionType names which of the two orthogonal codes a repair step decodes.
type ActionType int

const (
	// RowAction decodes along a code-row using the row code (k1, m1).
	RowAction ActionType = iota
	// ColumnAction decodes along a code-column using the column code (k2, m2).
	ColumnAction
)

func (t ActionType) String() string {
	if t == RowAction {
		return "row"
	}
	return "column"
}

// Action is one step of a repair plan: decode row/column Index, recovering
// the failed blocks named by Recovered (a bitmask over the original failed
// id list, not over block ids), at the given cross-rack read Cost.
type Action struct {
	Type      ActionType
	Index     int
	Cost      int
	Recovered uint64
}

// MaxFailedBlocks bounds the size of a single repair request: the planner's
// state space is 2^n subsets of the failed set, so spec §9 caps n at 20.
const MaxFailedBlocks = 20

// ErrTooManyFailures is returned when more than MaxFailedBlocks ids are
// passed to Plan.
var ErrTooManyFailures = errors.New("repair: too many simultaneous failures to plan")

// ErrUnrepairable is returned when no sequence of row/column decodes can
// recover every failed block (too many failures concentrated in one row or
// column for that code's parity budget).
var ErrUnrepairable = errors.New("repair: failed block set is not repairable")

// ErrInsufficientSurvivors is returned by the executor when a row or column
// being decoded does not have enough surviving blocks for the Vandermonde
// code's minimum distance (fewer than k1 or k2 survivors).
var ErrInsufficientSurvivors = errors.New("repair: insufficient survivors to decode")
