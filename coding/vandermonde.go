// Package coding produces the Reed-Solomon Vandermonde coding matrices
// shared by the encoder and the repair decoder, so that both sides agree on
// exactly which generator rows a parity block corresponds to.
package coding

import "github.com/dgridio/pcstore/gf256"

// VandermondeMatrix returns the m x k matrix made of rows 1..m of the
// (m+1) x k Vandermonde matrix over GF(2^8): row r, column c holds
// pow(c+1, r). Row 0 (all ones) is intentionally discarded so that every
// returned row is linearly independent of the implicit identity prefix of a
// systematic code - see spec §4.1.
//
// VandermondeMatrix(k, 0) returns an empty matrix (no parity).
func VandermondeMatrix(k, m int) [][]byte {
	rows := make([][]byte, m)
	for r := 0; r < m; r++ {
		row := make([]byte, k)
		for c := 0; c < k; c++ {
			row[c] = gf256.Pow(byte(c+1), r+1)
		}
		rows[r] = row
	}
	return rows
}

// GeneratorMatrix returns the full (k+m) x k systematic generator matrix: the
// top k rows are the identity, and the bottom m rows are VandermondeMatrix(k, m).
// Decoding (package repair) picks rows out of this matrix by local index to
// build the square submatrix it inverts.
func GeneratorMatrix(k, m int) [][]byte {
	g := make([][]byte, k+m)
	for r := 0; r < k; r++ {
		row := make([]byte, k)
		row[r] = 1
		g[r] = row
	}
	parity := VandermondeMatrix(k, m)
	for p := 0; p < m; p++ {
		g[k+p] = parity[p]
	}
	return g
}
