package pcstore

import "github.com/pkg/errors"

// BlockKind classifies a block id by the quadrant of the code grid it falls
// into (spec §3).
type BlockKind int

const (
	// DataBlock holds original input (r < k2, c < k1).
	DataBlock BlockKind = iota
	// RowParityBlock holds a row-code (RS(k1, m1)) parity block (r < k2, c >= k1).
	RowParityBlock
	// ColumnParityBlock holds a column-code (RS(k2, m2)) parity block (r >= k2, c < k1).
	ColumnParityBlock
	// CrossParityBlock holds cross-parity, the m2 x m1 block shared by both codes.
	CrossParityBlock
)

func (k BlockKind) String() string {
	switch k {
	case DataBlock:
		return "data"
	case RowParityBlock:
		return "row-parity"
	case ColumnParityBlock:
		return "column-parity"
	case CrossParityBlock:
		return "cross-parity"
	default:
		return "unknown"
	}
}

// Dimensions captures the code-grid parameters (k1, m1, k2, m2) shared by
// the encoder, placement engine, and repair subsystems.
type Dimensions struct {
	K1, M1 int // row-code: k1 data columns, m1 row-parity columns
	K2, M2 int // column-code: k2 data rows, m2 column-parity rows
}

// Rows is the total row count of the code grid, k2+m2.
func (d Dimensions) Rows() int { return d.K2 + d.M2 }

// Cols is the total column count of the code grid, k1+m1.
func (d Dimensions) Cols() int { return d.K1 + d.M1 }

// ParityM1 returns the row-code parity column count, for placement
// strategies that strip or tile on it directly.
func (d Dimensions) ParityM1() int { return d.M1 }

// ParityM2 returns the column-code parity row count, for placement
// strategies that strip or tile on it directly.
func (d Dimensions) ParityM2() int { return d.M2 }

// Blocks is the total block count of the code grid.
func (d Dimensions) Blocks() int { return d.Rows() * d.Cols() }

// DataBlocks is k1*k2, the number of original data blocks.
func (d Dimensions) DataBlocks() int { return d.K1 * d.K2 }

// Validate checks the structural preconditions common to every component:
// k1, k2 > 0 and m1, m2 >= 0 (spec §4.2).
func (d Dimensions) Validate() error {
	if d.K1 <= 0 || d.K2 <= 0 {
		return errors.Errorf("pcstore: k1 and k2 must be positive, got k1=%d k2=%d", d.K1, d.K2)
	}
	if d.M1 < 0 || d.M2 < 0 {
		return errors.Errorf("pcstore: m1 and m2 must be non-negative, got m1=%d m2=%d", d.M1, d.M2)
	}
	return nil
}

// RowCol converts a block id (row-major: id = r*Cols()+c) into its row and
// column within the code grid.
func (d Dimensions) RowCol(id int) (row, col int) {
	cols := d.Cols()
	return id / cols, id % cols
}

// BlockID is the inverse of RowCol.
func (d Dimensions) BlockID(row, col int) int {
	return row*d.Cols() + col
}

// Classify returns the quadrant of block id, plus its parity index within
// that quadrant (column index p for row-parity, row index q for
// column-parity and cross-parity; 0 for data blocks).
func (d Dimensions) Classify(id int) (kind BlockKind, index int) {
	row, col := d.RowCol(id)
	switch {
	case row < d.K2 && col < d.K1:
		return DataBlock, 0
	case row < d.K2 && col >= d.K1:
		return RowParityBlock, col - d.K1
	case row >= d.K2 && col < d.K1:
		return ColumnParityBlock, row - d.K2
	default:
		return CrossParityBlock, row - d.K2
	}
}

// RowPeers returns, in column order, the ids of every block in code-row r.
func (d Dimensions) RowPeers(r int) []int {
	peers := make([]int, d.Cols())
	for c := range peers {
		peers[c] = d.BlockID(r, c)
	}
	return peers
}

// ColumnPeers returns, in row order, the ids of every block in code-column c.
func (d Dimensions) ColumnPeers(c int) []int {
	peers := make([]int, d.Rows())
	for r := range peers {
		peers[r] = d.BlockID(r, c)
	}
	return peers
}
