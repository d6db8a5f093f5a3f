package pcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArray_RowMajorEquivalence(t *testing.T) {
	// scenario 3: random(123); s=state(); random([100,5,11])=A; restore(s);
	// advance(99*5*11); random([5,11])=B => A[99,:,:]==B
	g := NewSeededGenerator(123, 1)
	warmup := make([]float64, 123)
	assert.NoError(t, g.Random(warmup))
	s := g.State()

	const d0, d1, d2 = 100, 5, 11
	full := make([]float64, d0*d1*d2)
	assert.NoError(t, g.Random(full))

	g.Restore(s)
	g.Advance(99 * d1 * d2)
	tail := make([]float64, d1*d2)
	assert.NoError(t, g.Random(tail))

	sliceStart := 99 * d1 * d2
	assert.Equal(t, tail, full[sliceStart:sliceStart+d1*d2])
}

func TestArray_CellsAreIndependent(t *testing.T) {
	// scenario 6: init_state = [0..9].reshape(2,5), init_seq = 0.
	shape := []int{2, 5}
	a := NewArray(shape)
	for i := 0; i < arraySize(shape); i++ {
		a.Cell(i).Seed(uint64(i), 0)
	}

	const n = 4 * 5
	out, err := a.Random(n)
	assert.NoError(t, err)

	for i := 0; i < a.Size(); i++ {
		for j := i + 1; j < a.Size(); j++ {
			rowI := out[i*n : (i+1)*n]
			rowJ := out[j*n : (j+1)*n]
			assert.NotEqual(t, rowI, rowJ, "cells %d and %d should not draw identical rows", i, j)
		}
	}
}

func TestArray_RestoreReproducesDraws(t *testing.T) {
	shape := []int{2, 5}
	a := NewArray(shape)
	for i := 0; i < arraySize(shape); i++ {
		a.Cell(i).Seed(uint64(i), 0)
	}

	states := a.State()
	first, err := a.Random(20)
	assert.NoError(t, err)

	assert.NoError(t, a.Restore(states))
	second, err := a.Random(20)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestArray_RestoreSingleCell(t *testing.T) {
	shape := []int{3}
	a := NewArray(shape)
	for i := 0; i < 3; i++ {
		a.Cell(i).Seed(uint64(i+1), 0)
	}

	snapshot := a.Cell(1).State()
	out := make([]float64, 5)
	assert.NoError(t, a.Cell(1).Random(out))
	otherStateBefore := a.Cell(0).State()

	a.RestoreCell(1, snapshot)

	assert.Equal(t, snapshot, a.Cell(1).State())
	assert.Equal(t, otherStateBefore, a.Cell(0).State())
}

func TestArray_AtUsesRowMajorIndexing(t *testing.T) {
	shape := []int{2, 3}
	a := NewArray(shape)

	g, err := a.At(1, 2)
	assert.NoError(t, err)
	assert.Same(t, a.Cell(5), g)

	_, err = a.At(2, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestArray_DecideMatchesPerCellProbability(t *testing.T) {
	shape := []int{4}
	a := NewArray(shape)
	for i := 0; i < 4; i++ {
		a.Cell(i).Seed(uint64(i)+100, 0)
	}

	verify := NewArray(shape)
	for i := 0; i < 4; i++ {
		verify.Cell(i).Seed(uint64(i)+100, 0)
	}

	p := []float64{0, 0.3, 0.6, 1}
	want := make([]bool, 4)
	for i, pi := range p {
		want[i] = verify.Cell(i).bits.Float64() <= pi
	}

	got, err := a.Decide(p)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}
