// Package placement implements the seven rack/server mapping strategies of
// spec §4.4: a deterministic, total function from code-grid block id to
// (rack, server_index).
package placement

import "github.com/pkg/errors"

// Entry is one block's placement: which rack and which server within that
// rack holds it. Row/Col are carried alongside for convenience; they are
// recoverable from BlockID via pcstore.Dimensions.RowCol.
type Entry struct {
	BlockID      int
	Row, Col     int
	Rack         int
	ServerIndex  int
}

// Strategy numbers the seven mapping strategies (spec §4.4).
type Strategy int

const (
	DistinctRack Strategy = iota + 1
	ColumnGroup
	RowGroup
	M1ColumnStrip
	M2RowStrip
	TilePlusAggregator
	Diagonal
)

// ErrUnknownBlock is returned by Engine.Get for an id with no placement entry.
var ErrUnknownBlock = errors.New("placement: unknown block id")

// ErrUnknownStrategy is returned when Strategy is outside 1..7.
var ErrUnknownStrategy = errors.New("placement: unknown strategy")

// ErrInsufficientRacks is returned when rack_count violates a strategy's
// precondition (spec §4.4).
var ErrInsufficientRacks = errors.New("placement: insufficient racks for strategy")

// ErrInvalidParameter is returned when a strategy precondition on m1/m2 is
// violated (e.g. m1-column-strip requires m1 > 0).
var ErrInvalidParameter = errors.New("placement: invalid parameter for strategy")
