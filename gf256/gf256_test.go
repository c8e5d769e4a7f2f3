package gf256

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulInverseIdentity(t *testing.T) {
	for a := 1; a < 256; a++ {
		got := Mul(byte(a), Inverse(byte(a)))
		assert.Equalf(t, byte(1), got, "mul(%d, inverse(%d)) should be 1", a, a)
	}
}

func TestMulZero(t *testing.T) {
	assert.Equal(t, byte(0), Mul(0, 42))
	assert.Equal(t, byte(0), Mul(42, 0))
	assert.Equal(t, byte(0), Mul(0, 0))
}

func TestPowMatchesIteratedMultiplication(t *testing.T) {
	for _, a := range []byte{0, 1, 2, 3, 7, 0xAB, 0xFF} {
		for n := 0; n <= 6; n++ {
			want := byte(1)
			for i := 0; i < n; i++ {
				want = Mul(want, a)
			}
			assert.Equalf(t, want, Pow(a, n), "pow(%d, %d)", a, n)
		}
	}
}

func TestPowZeroExponent(t *testing.T) {
	for a := 0; a < 256; a++ {
		assert.Equal(t, byte(1), Pow(byte(a), 0))
	}
}

func TestPowZeroBase(t *testing.T) {
	for n := 1; n <= 5; n++ {
		assert.Equal(t, byte(0), Pow(0, n))
	}
}

func TestSolveLinearSystemUniqueSolution(t *testing.T) {
	// 2x2 system with a known non-singular coefficient matrix and a
	// single-byte right-hand side per row.
	a := [][]byte{
		{1, 1},
		{1, 2},
	}
	x := [][]byte{
		{5},
		{9},
	}
	b := make([][]byte, 2)
	for i := range b {
		b[i] = make([]byte, 1)
		for j := range a[i] {
			b[i][0] ^= Mul(a[i][j], x[j][0])
		}
	}

	got, err := SolveLinearSystem(a, b)
	require.NoError(t, err)
	require.Equal(t, x, got)
}

func TestSolveLinearSystemSingular(t *testing.T) {
	a := [][]byte{
		{1, 1},
		{1, 1},
	}
	b := [][]byte{
		{1},
		{1},
	}
	_, err := SolveLinearSystem(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSingularMatrix)
}

func TestInvertRoundTrip(t *testing.T) {
	a := [][]byte{
		{1, 1, 1},
		{1, 2, 3},
		{1, 3, 2},
	}
	inv, err := Invert(a)
	require.NoError(t, err)

	// a * inv should be the identity.
	n := len(a)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum byte
			for k := 0; k < n; k++ {
				sum ^= Mul(a[i][k], inv[k][j])
			}
			want := byte(0)
			if i == j {
				want = 1
			}
			assert.Equalf(t, want, sum, "(a*inv)[%d][%d]", i, j)
		}
	}
}
