package pcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestGenerator_SameSeedProducesIdenticalBuffers(t *testing.T) {
	a := NewSeededGenerator(2024, 99)
	b := NewSeededGenerator(2024, 99)

	outA := make([]float64, 256)
	outB := make([]float64, 256)
	assert.NoError(t, a.Random(outA))
	assert.NoError(t, b.Random(outB))

	assert.Equal(t, outA, outB)
}

func TestGenerator_RestoreThenRandomMatchesAdvance(t *testing.T) {
	g := NewSeededGenerator(1, 2)
	state := g.State()

	g.Restore(state)
	out := make([]float64, 100)
	assert.NoError(t, g.Random(out))
	afterDraw := g.State()

	g.Restore(state)
	g.Advance(100)
	afterAdvance := g.State()

	assert.Equal(t, afterDraw, afterAdvance)
}

func TestGenerator_DistanceAfterRandomEqualsCount(t *testing.T) {
	g := NewSeededGenerator(5, 6)
	clone := g.Clone()

	out := make([]float64, 37)
	assert.NoError(t, g.Random(out))

	assert.Equal(t, int64(37), g.Distance(clone))
	assert.Equal(t, int64(-37), clone.Distance(g))
}

func TestGenerator_CloneIsIndependent(t *testing.T) {
	g := NewSeededGenerator(8, 9)
	clone := g.Clone()

	out := make([]float64, 10)
	assert.NoError(t, g.Random(out))

	assert.NotEqual(t, g.State(), clone.State())
}

func TestGenerator_InitStateInitSeqSurviveSeed(t *testing.T) {
	g := NewSeededGenerator(111, 222)
	assert.Equal(t, uint64(111), g.InitState())
	assert.Equal(t, uint64(222), g.InitSeq())
}

func TestGenerator_RandomIsUniform(t *testing.T) {
	g := NewSeededGenerator(42, 54)
	const n, k = 100000, 25
	expected := float64(n) / float64(k)

	out := make([]float64, n)
	assert.NoError(t, g.Random(out))

	observed := make([]float64, k)
	expectedFreq := make([]float64, k)
	for i := range expectedFreq {
		expectedFreq[i] = expected
	}
	for _, v := range out {
		bin := int(v * float64(k))
		if bin >= k {
			bin = k - 1
		}
		observed[bin]++
	}

	chi2 := stat.ChiSquare(observed, expectedFreq)
	assert.Less(t, chi2, 80.0, "chi-square statistic too large for a uniform source: %f", chi2)
}

func TestGenerator_RandintBounds(t *testing.T) {
	g := NewGenerator()
	out := make([]int64, 10000)
	assert.NoError(t, g.Randint(out, -5, 5))

	for _, v := range out {
		assert.GreaterOrEqual(t, v, int64(-5))
		assert.Less(t, v, int64(5))
	}
}
