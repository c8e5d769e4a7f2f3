package gf256

import "github.com/pkg/errors"

// ErrSingularMatrix is returned when a coefficient matrix has no pivot for
// some column during Gaussian elimination.
var ErrSingularMatrix = errors.New("gf256: singular matrix")

// SolveLinearSystem solves A*X = B over GF(2^8) by Gaussian elimination with
// partial pivoting, operating on the coefficient matrix and the right-hand
// side in lockstep. A is n x n, B is n x m (each row is a byte vector, e.g.
// a block of payload bytes); X has the same shape as B.
//
// A and B are not mutated; the solution is returned in a freshly allocated
// matrix.
func SolveLinearSystem(a [][]byte, b [][]byte) ([][]byte, error) {
	n := len(a)
	if n == 0 {
		return nil, errors.New("gf256: empty coefficient matrix")
	}
	m := len(b[0])

	mat := make([][]byte, n)
	rhs := make([][]byte, n)
	for i := range a {
		mat[i] = append([]byte(nil), a[i]...)
		rhs[i] = append([]byte(nil), b[i]...)
	}

	for i := 0; i < n; i++ {
		pivot := -1
		for r := i; r < n; r++ {
			if mat[r][i] != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			return nil, errors.Wrapf(ErrSingularMatrix, "no pivot at column %d", i)
		}
		if pivot != i {
			mat[i], mat[pivot] = mat[pivot], mat[i]
			rhs[i], rhs[pivot] = rhs[pivot], rhs[i]
		}

		inv := Inverse(mat[i][i])
		for j := 0; j < n; j++ {
			mat[i][j] = Mul(mat[i][j], inv)
		}
		for j := 0; j < m; j++ {
			rhs[i][j] = Mul(rhs[i][j], inv)
		}

		for r := 0; r < n; r++ {
			if r == i {
				continue
			}
			factor := mat[r][i]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				mat[r][j] ^= Mul(factor, mat[i][j])
			}
			for j := 0; j < m; j++ {
				rhs[r][j] ^= Mul(factor, rhs[i][j])
			}
		}
	}

	return rhs, nil
}

// Invert computes the inverse of an n x n matrix over GF(2^8) by running
// Gaussian elimination against the identity matrix as the right-hand side.
func Invert(a [][]byte) ([][]byte, error) {
	n := len(a)
	identity := make([][]byte, n)
	for i := range identity {
		identity[i] = make([]byte, n)
		identity[i][i] = 1
	}
	return SolveLinearSystem(a, identity)
}
