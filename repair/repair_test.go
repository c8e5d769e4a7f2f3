package repair

import (
	"context"
	"fmt"
	"testing"

	pcstore "github.com/dgridio/pcstore"
	"github.com/dgridio/pcstore/blockstore"
	"github.com/dgridio/pcstore/coding"
	"github.com/dgridio/pcstore/gf256"
	"github.com/dgridio/pcstore/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory blockstore.Store standing in for a live
// memcached cluster, so RepairAndSet's real read/decode/write-back path can
// be exercised without one.
type fakeStore struct {
	data map[string][]byte
}

var _ blockstore.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) addrKey(ip string, port int, key string) string {
	return fmt.Sprintf("%s:%d/%s", ip, port, key)
}

func (f *fakeStore) Set(ip string, port int, key string, value []byte) error {
	f.data[f.addrKey(ip, port, key)] = append([]byte(nil), value...)
	return nil
}

func (f *fakeStore) Get(ip string, port int, key string) ([]byte, bool, error) {
	v, ok := f.data[f.addrKey(ip, port, key)]
	return v, ok, nil
}

func (f *fakeStore) Delete(ip string, port int, key string) {
	delete(f.data, f.addrKey(ip, port, key))
}

// diagonalFailedIDs picks size distinct block ids, one per row and one per
// column (row i, col i), so each failure sits in a row and column no other
// failure shares - recoverable even when m1=m2=1.
func diagonalFailedIDs(dim pcstore.Dimensions, size int) []int {
	ids := make([]int, size)
	for i := 0; i < size; i++ {
		ids[i] = dim.BlockID(i, i)
	}
	return ids
}

func sampleDimAndEngine(t *testing.T) (pcstore.Dimensions, *placement.Engine) {
	t.Helper()
	dim := pcstore.Dimensions{K1: 3, M1: 1, K2: 3, M2: 1}
	eng := placement.NewEngine(dim, placement.Diagonal, 4, 2, 0, nil, nil)
	require.NoError(t, eng.GenerateMapping())
	return dim, eng
}

func TestPlanSingleFailureIsOneRowOrColumnAction(t *testing.T) {
	dim, eng := sampleDimAndEngine(t)
	failed := []int{dim.BlockID(0, 0)}

	plan, err := Plan(failed, dim, eng)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, uint64(1), plan[0].Recovered)
}

func TestPlanEmptyFailureSetReturnsEmptyPlan(t *testing.T) {
	dim, eng := sampleDimAndEngine(t)
	plan, err := Plan(nil, dim, eng)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestPlanTooManyFailuresReturnsSentinel(t *testing.T) {
	dim, eng := sampleDimAndEngine(t)
	failed := make([]int, MaxFailedBlocks+1)
	for i := range failed {
		failed[i] = i
	}
	_, err := Plan(failed, dim, eng)
	assert.ErrorIs(t, err, ErrTooManyFailures)
}

func TestPlanUnrepairableWithNoParity(t *testing.T) {
	// With m1=m2=0 there is no parity at all, so any missing block has no
	// row or column action that can ever recover it.
	dim := pcstore.Dimensions{K1: 2, M1: 0, K2: 2, M2: 0}
	eng := placement.NewEngine(dim, placement.Diagonal, 3, 1, 0, nil, nil)
	require.NoError(t, eng.GenerateMapping())

	failed := []int{dim.BlockID(0, 0)}
	_, err := Plan(failed, dim, eng)
	assert.ErrorIs(t, err, ErrUnrepairable)
}

func TestPlanRecoversAllFailedBlocks(t *testing.T) {
	dim, eng := sampleDimAndEngine(t)
	failed := []int{dim.BlockID(0, 0), dim.BlockID(1, 2)}

	plan, err := Plan(failed, dim, eng)
	require.NoError(t, err)
	require.NotEmpty(t, plan)

	recovered := uint64(0)
	for _, a := range plan {
		recovered |= a.Recovered
	}
	assert.Equal(t, uint64(1)<<uint(len(failed))-1, recovered)
}

func TestPlanShapeForRowFailure(t *testing.T) {
	dim := pcstore.Dimensions{K1: 2, M1: 1, K2: 2, M2: 1}
	eng := placement.NewEngine(dim, placement.Diagonal, 3, 1, 0, nil, nil)
	require.NoError(t, eng.GenerateMapping())

	failed := []int{dim.BlockID(0, 1)}
	plan, err := Plan(failed, dim, eng)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, RowAction, plan[0].Type)
	assert.Equal(t, 0, plan[0].Index)
}

// TestDecodeMathReconstructsMissingDataBlock exercises the same
// generator-matrix/Gaussian-elimination decode decodeAndWrite performs,
// directly against Encode's output, without a block store: encode a grid,
// drop one data block, rebuild it from its row's k1 survivors, and check it
// matches the original.
func TestDecodeMathReconstructsMissingDataBlock(t *testing.T) {
	dim := pcstore.Dimensions{K1: 2, M1: 1, K2: 2, M2: 1}
	blockSize := 4
	data := make([][]byte, dim.DataBlocks())
	for i := range data {
		data[i] = []byte{byte(i + 10), 0, 0, 0}
	}
	encoded, err := pcstore.Encode(data, dim, blockSize)
	require.NoError(t, err)

	row := 0
	peers := dim.RowPeers(row)
	missingID := peers[0]

	g := coding.GeneratorMatrix(dim.K1, dim.ParityM1())
	var a, b [][]byte
	for _, id := range peers {
		if id == missingID {
			continue
		}
		_, col := dim.RowCol(id)
		a = append(a, g[col])
		b = append(b, encoded[id])
		if len(a) == dim.K1 {
			break
		}
	}
	require.Len(t, a, dim.K1)

	decoded, err := gf256.SolveLinearSystem(a, b)
	require.NoError(t, err)

	_, missingCol := dim.RowCol(missingID)
	assert.Equal(t, encoded[missingID], decoded[missingCol])
}

// TestRepairAndSetRoundTrip is spec §8 testable property 5: after executing
// a plan, Get for each originally-failed id returns exactly what Encode
// produced for it, for failure sets of size 1, 2, and 3.
func TestRepairAndSetRoundTrip(t *testing.T) {
	blockSize := 4
	for _, size := range []int{1, 2, 3} {
		size := size
		t.Run(fmt.Sprintf("failed=%d", size), func(t *testing.T) {
			dim, eng := sampleDimAndEngine(t)
			data := make([][]byte, dim.DataBlocks())
			for i := range data {
				data[i] = []byte{byte(i + 1), byte(i + 2), byte(i + 3), byte(i + 4)}
			}
			encoded, err := pcstore.Encode(data, dim, blockSize)
			require.NoError(t, err)

			store := newFakeStore()
			written := eng.WriteAllBlocks(context.Background(), encoded, store)
			require.Equal(t, dim.Blocks(), written)

			failed := diagonalFailedIDs(dim, size)
			for _, id := range failed {
				entry, err := eng.Get(id)
				require.NoError(t, err)
				ip, port := eng.Address(entry)
				store.Delete(ip, port, blockstore.Key(id))
			}

			plan, err := Plan(failed, dim, eng)
			require.NoError(t, err)

			require.NoError(t, RepairAndSet(context.Background(), plan, failed, dim, eng, store, blockSize, nil))

			for _, id := range failed {
				entry, err := eng.Get(id)
				require.NoError(t, err)
				ip, port := eng.Address(entry)
				got, found, err := store.Get(ip, port, blockstore.Key(id))
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, encoded[id], got)
			}
		})
	}
}
