package pcstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockOf(b byte, size int) []byte {
	block := make([]byte, size)
	for i := range block {
		block[i] = b
	}
	return block
}

func TestEncodeRejectsWrongDataLength(t *testing.T) {
	dim := Dimensions{K1: 2, M1: 1, K2: 2, M2: 1}
	_, err := Encode([][]byte{{0}}, dim, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLength)
}

func TestEncodeRejectsOversizedBlock(t *testing.T) {
	dim := Dimensions{K1: 1, M1: 0, K2: 1, M2: 0}
	_, err := Encode([][]byte{{1, 2, 3, 4, 5}}, dim, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlockTooLarge)
}

func TestEncodeZeroPadsShortInput(t *testing.T) {
	dim := Dimensions{K1: 1, M1: 0, K2: 1, M2: 0}
	encoded, err := Encode([][]byte{{0xAB}}, dim, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0, 0, 0}, encoded[0])
}

func TestEncodeDeterministic(t *testing.T) {
	dim := Dimensions{K1: 3, M1: 2, K2: 3, M2: 2}
	data := make([][]byte, dim.DataBlocks())
	for i := range data {
		data[i] = blockOf(byte(i+1), 8)
	}

	first, err := Encode(data, dim, 8)
	require.NoError(t, err)
	second, err := Encode(data, dim, 8)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for id, block := range first {
		assert.Equal(t, block, second[id], "block %d should be byte-identical across calls", id)
	}
}

func TestEncodeCoversEveryQuadrant(t *testing.T) {
	dim := Dimensions{K1: 2, M1: 1, K2: 2, M2: 1}
	data := make([][]byte, dim.DataBlocks())
	for i := range data {
		data[i] = blockOf(byte(i), 4)
	}
	encoded, err := Encode(data, dim, 4)
	require.NoError(t, err)
	assert.Len(t, encoded, dim.Blocks())
	for id := 0; id < dim.Blocks(); id++ {
		_, ok := encoded[id]
		assert.Truef(t, ok, "block %d missing from encoded map", id)
	}
}

// TestCrossParityCommutativity checks spec §3/§8 property 3: S computed
// from R must equal S computed from C.
func TestCrossParityCommutativity(t *testing.T) {
	dims := []Dimensions{
		{K1: 2, M1: 1, K2: 2, M2: 1},
		{K1: 3, M1: 2, K2: 4, M2: 3},
		{K1: 5, M1: 1, K2: 2, M2: 2},
	}
	for _, dim := range dims {
		data := make([][]byte, dim.DataBlocks())
		for i := range data {
			data[i] = blockOf(byte(i*7+1), 6)
		}

		d, err := reshapeData(data, dim, 6)
		require.NoError(t, err)
		rowParity := generateRowParity(d, dim, 6)
		colParity := generateColumnParity(d, dim, 6)

		fromRow := generateCrossParity(rowParity, dim, 6)
		fromCol := crossParityFromColumns(colParity, dim, 6)

		require.Equal(t, len(fromRow), len(fromCol))
		for q := range fromRow {
			for p := range fromRow[q] {
				assert.Equalf(t, fromRow[q][p], fromCol[q][p],
					"dim=%+v: S[%d][%d] differs between row- and column-derivation", dim, q, p)
			}
		}
	}
}

// TestEncodeScenarioS1 is spec §8 scenario S1.
func TestEncodeScenarioS1(t *testing.T) {
	dim := Dimensions{K1: 2, M1: 1, K2: 2, M2: 1}
	data := [][]byte{
		{0x00}, {0x01},
		{0x02}, {0x03},
	}
	encoded, err := Encode(data, dim, 4)
	require.NoError(t, err)
	assert.Len(t, encoded, 9)
	assert.Equal(t, []byte{0x00, 0, 0, 0}, encoded[0])
	assert.Equal(t, []byte{0x01, 0, 0, 0}, encoded[1])
	assert.Equal(t, []byte{0x02, 0, 0, 0}, encoded[3])
	assert.Equal(t, []byte{0x03, 0, 0, 0}, encoded[4])
}

// TestEncodeScenarioS6 is spec §8 scenario S6: a known k=2, m=2 RS test
// vector whose row-parities must equal the Vandermonde-derived values.
func TestEncodeScenarioS6(t *testing.T) {
	dim := Dimensions{K1: 2, M1: 2, K2: 1, M2: 0}
	data := [][]byte{{0x01}, {0x02}}
	encoded, err := Encode(data, dim, 1)
	require.NoError(t, err)

	// Row r=0: data at cols 0,1; row-parity at cols 2,3 (p=0,1).
	// alpha[p][c] = pow(c+1, p+1); parity = alpha[p][0]*d0 ^ alpha[p][1]*d1.
	wantP0 := gfMulByte(1, 0x01) ^ gfMulByte(2, 0x02)
	wantP1 := gfMulByte(1, 0x01) ^ gfMulByte(4, 0x02)
	assert.Equal(t, []byte{wantP0}, encoded[2])
	assert.Equal(t, []byte{wantP1}, encoded[3])
}

func gfMulByte(a, b byte) byte {
	// local, dependency-free re-implementation of GF(2^8) multiply for the
	// test vector check, independent of the gf256 package under test.
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		hi := a & 0x80
		a <<= 1
		if hi != 0 {
			a ^= 0x1D
		}
		b >>= 1
	}
	return p
}
