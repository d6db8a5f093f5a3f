package pcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildWeibullReference draws n weibull(offset-shifted) values from a
// freshly seeded generator and returns their running cumulative sum, one
// entry per draw, so chunk Align results can be checked against a plain
// unchunked reference.
func buildWeibullReference(t *testing.T, seed, seq uint64, n int, p WeibullParams, offset float64) []float64 {
	t.Helper()
	g := NewSeededGenerator(seed, seq)
	draws := make([]float64, n)
	assert.NoError(t, g.WeibullWith(draws, p))
	xref := make([]float64, n)
	sum := 0.0
	for i, d := range draws {
		sum += d + offset
		xref[i] = sum
	}
	return xref
}

func TestCumsumChunk_AlignMatchesReference(t *testing.T) {
	const seed, seq = 9001, 17
	const refSize = 10000
	p := WeibullParams{K: 2, Lambda: 5}
	const offset = 0.1

	xref := buildWeibullReference(t, seed, seq, refSize, p, offset)

	policy := AlignPolicy{Margin: 10, Strict: true}
	for _, i := range []int{110, 1010, 40, 120} {
		chunk := NewCumsumChunk(100, policy)
		chunk.Generator().Seed(seed, seq)
		chunk.SetWeibull(p, offset)
		assert.NoError(t, chunk.DrawChunk())

		target := 0.5 * (xref[i] + xref[i+1])
		assert.NoError(t, chunk.Align(target), "align to index %d", i)

		assert.Equal(t, uint64(i), chunk.Start()+10, "start+margin should land at index %d", i)
		assert.LessOrEqual(t, chunk.Data()[10], target)
		assert.Greater(t, chunk.Data()[11], target)
	}
}

func TestCumsumChunk_NextPreservesMarginTail(t *testing.T) {
	chunk := NewCumsumChunk(20, DefaultAlignPolicy())
	chunk.Generator().Seed(1, 1)
	chunk.SetNormal(NormalParams{Mu: 0, Sigma: 1}, 0)
	assert.NoError(t, chunk.DrawChunk())

	tail := append([]float64(nil), chunk.Data()[20-5:]...)
	assert.NoError(t, chunk.Next(5))

	assert.Equal(t, tail, chunk.Data()[:5])
	assert.Equal(t, uint64(15), chunk.Start())
}

func TestCumsumChunk_PrevUndoesNext(t *testing.T) {
	chunk := NewCumsumChunk(20, DefaultAlignPolicy())
	chunk.Generator().Seed(2, 2)
	chunk.SetExponential(ExponentialParams{Rate: 1}, 0)
	assert.NoError(t, chunk.DrawChunk())

	snapshot := append([]float64(nil), chunk.Data()...)
	startBefore := chunk.Start()

	assert.NoError(t, chunk.Next(5))
	assert.NoError(t, chunk.Prev(5))

	assert.Equal(t, startBefore, chunk.Start())
	assert.Equal(t, snapshot, chunk.Data())
}

func TestCumsumChunk_PrevBeyondHistoryFails(t *testing.T) {
	chunk := NewCumsumChunk(20, DefaultAlignPolicy())
	chunk.Generator().Seed(3, 3)
	chunk.SetRandom(DefaultUniformParams(), 0)
	assert.NoError(t, chunk.DrawChunk())

	assert.ErrorIs(t, chunk.Prev(5), ErrAlignmentUnreachable)
}

func TestCumsumChunk_RestoreThenDrawReproducesBuffer(t *testing.T) {
	chunk := NewCumsumChunk(30, DefaultAlignPolicy())
	chunk.Generator().Seed(4, 4)
	chunk.SetGamma(GammaParams{Alpha: 2, Theta: 1.5}, 0)
	assert.NoError(t, chunk.DrawChunk())
	assert.NoError(t, chunk.Next(10))
	assert.NoError(t, chunk.Next(10))

	state := chunk.AnchorState()
	value := chunk.AnchorValue()
	index := chunk.Start()
	snapshot := append([]float64(nil), chunk.Data()...)

	assert.NoError(t, chunk.Next(10))
	assert.NotEqual(t, snapshot, chunk.Data())

	chunk.Restore(state, value, index)
	assert.NoError(t, chunk.DrawChunk())

	assert.Equal(t, snapshot, chunk.Data())
	assert.Equal(t, index, chunk.Start())
}

func TestCumsumChunk_AlignAtResetsBaselineToZero(t *testing.T) {
	chunk := NewCumsumChunk(16, AlignPolicy{Margin: 4, Strict: true})
	chunk.Generator().Seed(5, 5)
	chunk.SetWeibull(WeibullParams{K: 1.5, Lambda: 2}, 0)
	assert.NoError(t, chunk.DrawChunk())

	assert.NoError(t, chunk.AlignAt(500))

	assert.Equal(t, uint64(500), chunk.IndexAtAlign())
	assert.Equal(t, uint64(500-4), chunk.Start())
	assert.Equal(t, chunk.Data()[4], chunk.LeftOfAlign())
}

func TestCumsumChunk_DrawChunkRequiresBoundDistribution(t *testing.T) {
	chunk := NewCumsumChunk(10, DefaultAlignPolicy())
	assert.ErrorIs(t, chunk.DrawChunk(), ErrInvalidParameter)
}

func TestCumsumChunk_DeltaNeverAdvancesGenerator(t *testing.T) {
	chunk := NewCumsumChunk(10, DefaultAlignPolicy())
	chunk.Generator().Seed(6, 6)
	chunk.SetDelta(2.5, 0)
	assert.NoError(t, chunk.DrawChunk())

	for i, v := range chunk.Data() {
		assert.InDelta(t, 2.5*float64(i+1), v, 1e-9)
	}

	before := chunk.Generator().State()
	assert.NoError(t, chunk.Next(2))
	assert.Equal(t, before, chunk.Generator().State())
}
