package pcstore

import (
	"github.com/dgridio/pcstore/coding"
	"github.com/dgridio/pcstore/gf256"
	"github.com/pkg/errors"
)

// ErrDataLength is returned by Encode when the supplied data does not have
// exactly k1*k2 blocks (spec §4.2 pre-condition).
var ErrDataLength = errors.New("pcstore: data must have exactly k1*k2 blocks")

// ErrBlockTooLarge is returned when an input block exceeds blockSize; inputs
// shorter than blockSize are zero-padded instead (spec §3).
var ErrBlockTooLarge = errors.New("pcstore: input block exceeds block size")

// Encode builds the full (k2+m2) x (k1+m1) product-code grid from k1*k2
// data blocks and flattens it into a block-id keyed map, per spec §4.2.
//
// Each entry of data must be at most blockSize bytes; shorter entries are
// zero-padded on the right.
func Encode(data [][]byte, dim Dimensions, blockSize int) (map[int][]byte, error) {
	if err := dim.Validate(); err != nil {
		return nil, err
	}
	if len(data) != dim.DataBlocks() {
		return nil, errors.Wrapf(ErrDataLength, "got %d, want %d", len(data), dim.DataBlocks())
	}

	d, err := reshapeData(data, dim, blockSize)
	if err != nil {
		return nil, err
	}

	rowParity := generateRowParity(d, dim, blockSize)
	colParity := generateColumnParity(d, dim, blockSize)
	crossParity := generateCrossParity(rowParity, dim, blockSize)

	return flatten(d, rowParity, colParity, crossParity, dim, blockSize), nil
}

// reshapeData lays data out as D[r][c], r in [0,k2), c in [0,k1), zero
// padding short inputs and rejecting oversized ones.
func reshapeData(data [][]byte, dim Dimensions, blockSize int) ([][][]byte, error) {
	d := make([][][]byte, dim.K2)
	for r := range d {
		d[r] = make([][]byte, dim.K1)
		for c := range d[r] {
			idx := r*dim.K1 + c
			block := make([]byte, blockSize)
			src := data[idx]
			if len(src) > blockSize {
				return nil, errors.Wrapf(ErrBlockTooLarge, "block %d has length %d", idx, len(src))
			}
			copy(block, src)
			d[r][c] = block
		}
	}
	return d, nil
}

// generateRowParity computes R[r][p] = XOR_c gf_mul(alpha[p][c], D[r][c])
// using the row code's Vandermonde coefficients.
func generateRowParity(d [][][]byte, dim Dimensions, blockSize int) [][][]byte {
	r := make([][][]byte, dim.K2)
	if dim.M1 == 0 {
		for row := range r {
			r[row] = make([][]byte, 0)
		}
		return r
	}

	alpha := coding.VandermondeMatrix(dim.K1, dim.M1)
	for row := 0; row < dim.K2; row++ {
		r[row] = make([][]byte, dim.M1)
		for p := 0; p < dim.M1; p++ {
			acc := make([]byte, blockSize)
			for c := 0; c < dim.K1; c++ {
				coef := alpha[p][c]
				xorScaled(acc, d[row][c], coef)
			}
			r[row][p] = acc
		}
	}
	return r
}

// generateColumnParity computes C[q][c] = XOR_r gf_mul(beta[q][r], D[r][c])
// using the column code's Vandermonde coefficients, from D alone.
func generateColumnParity(d [][][]byte, dim Dimensions, blockSize int) [][][]byte {
	c := make([][][]byte, dim.M2)
	if dim.M2 == 0 {
		return c
	}

	beta := coding.VandermondeMatrix(dim.K2, dim.M2)
	for q := 0; q < dim.M2; q++ {
		c[q] = make([][]byte, dim.K1)
		for col := 0; col < dim.K1; col++ {
			acc := make([]byte, blockSize)
			for row := 0; row < dim.K2; row++ {
				coef := beta[q][row]
				xorScaled(acc, d[row][col], coef)
			}
			c[q][col] = acc
		}
	}
	return c
}

// generateCrossParity computes S[q][p] = XOR_r gf_mul(beta[q][r], R[r][p]),
// i.e. the column code applied to the row-parity. Per spec §3/§4.2 this
// must equal the symmetric derivation from C; TestCrossParityCommutativity
// checks that invariant directly against the column-derived value.
func generateCrossParity(rowParity [][][]byte, dim Dimensions, blockSize int) [][][]byte {
	s := make([][][]byte, dim.M2)
	if dim.M2 == 0 || dim.M1 == 0 {
		for q := range s {
			s[q] = make([][]byte, 0)
		}
		return s
	}

	beta := coding.VandermondeMatrix(dim.K2, dim.M2)
	for q := 0; q < dim.M2; q++ {
		s[q] = make([][]byte, dim.M1)
		for p := 0; p < dim.M1; p++ {
			acc := make([]byte, blockSize)
			for row := 0; row < dim.K2; row++ {
				coef := beta[q][row]
				xorScaled(acc, rowParity[row][p], coef)
			}
			s[q][p] = acc
		}
	}
	return s
}

// crossParityFromColumns is the symmetric derivation of S from C rather
// than R; it exists solely so tests can assert commutativity (spec §8
// property 3), not as part of the production encode path.
func crossParityFromColumns(colParity [][][]byte, dim Dimensions, blockSize int) [][][]byte {
	s := make([][][]byte, dim.M2)
	if dim.M2 == 0 || dim.M1 == 0 {
		for q := range s {
			s[q] = make([][]byte, 0)
		}
		return s
	}

	alpha := coding.VandermondeMatrix(dim.K1, dim.M1)
	for q := 0; q < dim.M2; q++ {
		s[q] = make([][]byte, dim.M1)
		for p := 0; p < dim.M1; p++ {
			acc := make([]byte, blockSize)
			for col := 0; col < dim.K1; col++ {
				coef := alpha[p][col]
				xorScaled(acc, colParity[q][col], coef)
			}
			s[q][p] = acc
		}
	}
	return s
}

// xorScaled XORs gf_mul(coef, src[i]) into dst[i] for every byte i.
func xorScaled(dst, src []byte, coef byte) {
	for i := range dst {
		dst[i] ^= gf256.Mul(coef, src[i])
	}
}

// flatten lays D, R, C, S out into the id space of spec §3: row-major over
// the (k2+m2) x (k1+m1) grid.
func flatten(d, r, c, s [][][]byte, dim Dimensions, blockSize int) map[int][]byte {
	out := make(map[int][]byte, dim.Blocks())
	for row := 0; row < dim.Rows(); row++ {
		for col := 0; col < dim.Cols(); col++ {
			id := dim.BlockID(row, col)
			var block []byte
			switch {
			case row < dim.K2 && col < dim.K1:
				block = d[row][col]
			case row < dim.K2:
				block = r[row][col-dim.K1]
			case col < dim.K1:
				block = c[row-dim.K2][col]
			default:
				block = s[row-dim.K2][col-dim.K1]
			}
			cp := make([]byte, blockSize)
			copy(cp, block)
			out[id] = cp
		}
	}
	return out
}
