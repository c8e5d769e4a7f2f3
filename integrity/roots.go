// Package integrity implements the optional post-repair byzantine check of
// spec §5.8/§9: a Merkle root over each code-row and code-column's current
// block contents, which a caller can compare after repair to catch a peer
// that served bad survivor data. Package repair does not call it.
//
// This is adapted from the teacher's extendeddatacrossword.go
// (ErrByzantineRow/ErrByzantineColumn/verifyAgainstRoots), but roots are now
// computed with the teacher's actual dependency, celestiaorg/merkletree,
// over blake2b-hashed leaves, rather than the teacher's own leaf hash.
package integrity

import (
	"crypto/sha256"
	"fmt"

	"github.com/celestiaorg/merkletree"
	"golang.org/x/crypto/blake2b"
)

// ErrByzantineRow is returned when a repaired row's recomputed root does not
// match the root recorded before repair.
type ErrByzantineRow struct {
	RowNumber int
}

func (e *ErrByzantineRow) Error() string {
	return fmt.Sprintf("integrity: byzantine row %d", e.RowNumber)
}

// ErrByzantineColumn is returned when a repaired column's recomputed root
// does not match the root recorded before repair.
type ErrByzantineColumn struct {
	ColumnNumber int
}

func (e *ErrByzantineColumn) Error() string {
	return fmt.Sprintf("integrity: byzantine column %d", e.ColumnNumber)
}

func leafHash(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// root builds a Merkle root over blocks in order, hashing each block with
// blake2b before pushing it into the tree. The tree's own internal-node
// hasher is a separate sha256.New(), matching celestiaorg/merkletree's
// NebulousLabs-derived New(hash.Hash) constructor.
func root(blocks [][]byte) []byte {
	tree := merkletree.New(sha256.New())
	for _, b := range blocks {
		h := leafHash(b)
		tree.Push(h)
	}
	return tree.Root()
}

// RowRoot computes the Merkle root of one code-row's current blocks, in
// column order.
func RowRoot(blocks [][]byte) []byte {
	return root(blocks)
}

// ColumnRoot computes the Merkle root of one code-column's current blocks,
// in row order.
func ColumnRoot(blocks [][]byte) []byte {
	return root(blocks)
}

// VerifyRow recomputes rowIdx's root from blocks and compares it against
// expected, returning *ErrByzantineRow on mismatch.
func VerifyRow(rowIdx int, blocks [][]byte, expected []byte) error {
	got := RowRoot(blocks)
	if !bytesEqual(got, expected) {
		return &ErrByzantineRow{RowNumber: rowIdx}
	}
	return nil
}

// VerifyColumn recomputes colIdx's root from blocks and compares it against
// expected, returning *ErrByzantineColumn on mismatch.
func VerifyColumn(colIdx int, blocks [][]byte, expected []byte) error {
	got := ColumnRoot(blocks)
	if !bytesEqual(got, expected) {
		return &ErrByzantineColumn{ColumnNumber: colIdx}
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
