package coding

import (
	"testing"

	"github.com/dgridio/pcstore/gf256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVandermondeMatrixShape(t *testing.T) {
	rows := VandermondeMatrix(4, 3)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.Len(t, row, 4)
	}
}

func TestVandermondeMatrixSkipsAllOnesRow(t *testing.T) {
	// Row 0 of the underlying (m+1) x k Vandermonde matrix is all ones
	// (pow(c+1, 0) == 1 for every c); VandermondeMatrix must never return
	// it, so its first row (generator-row index 1) should not be all ones
	// for k > 1.
	rows := VandermondeMatrix(3, 1)
	allOnes := true
	for _, v := range rows[0] {
		if v != 1 {
			allOnes = false
		}
	}
	assert.False(t, allOnes, "first returned row must not be the discarded all-ones row")
}

func TestVandermondeMatrixValues(t *testing.T) {
	rows := VandermondeMatrix(2, 2)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			want := gf256.Pow(byte(c+1), r+1)
			assert.Equal(t, want, rows[r][c])
		}
	}
}

func TestVandermondeMatrixZeroParity(t *testing.T) {
	rows := VandermondeMatrix(5, 0)
	assert.Empty(t, rows)
}

func TestGeneratorMatrixIdentityPrefix(t *testing.T) {
	g := GeneratorMatrix(3, 2)
	require.Len(t, g, 5)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := byte(0)
			if r == c {
				want = 1
			}
			assert.Equal(t, want, g[r][c])
		}
	}
	parity := VandermondeMatrix(3, 2)
	assert.Equal(t, parity, g[3:])
}
