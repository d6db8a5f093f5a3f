package pcg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// cumsumTolerant checks spec.md section 8's cumsum testable property:
// |cumsum - sum(draws)| / max(1, |sum|) < 1e-3, an absolute bound when
// |sum| <= 1 and a relative one above.
func cumsumTolerant(t *testing.T, cumsum, sumOfDraws float64) {
	t.Helper()
	diff := math.Abs(cumsum - sumOfDraws)
	denom := math.Max(1, math.Abs(sumOfDraws))
	assert.Less(t, diff/denom, 1e-3, "cumsum=%g sum=%g", cumsum, sumOfDraws)
}

func TestGenerator_CumsumMatchesSummedDraws(t *testing.T) {
	const n = 5000

	t.Run("random", func(t *testing.T) {
		p := UniformParams{Scale: 3, Offset: -1}
		a, b := NewGenerator().Seed(1, 2), NewGenerator().Seed(1, 2)

		out := make([]float64, n)
		assert.NoError(t, a.RandomWith(out, p))
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cs, err := b.CumsumRandomWith(n, p)
		assert.NoError(t, err)
		cumsumTolerant(t, cs, sum)
	})

	t.Run("normal", func(t *testing.T) {
		p := NormalParams{Mu: 2, Sigma: 1.5}
		a, b := NewGenerator().Seed(3, 4), NewGenerator().Seed(3, 4)

		out := make([]float64, n)
		assert.NoError(t, a.NormalWith(out, p))
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cs, err := b.CumsumNormalWith(n, p)
		assert.NoError(t, err)
		cumsumTolerant(t, cs, sum)
	})

	t.Run("exponential", func(t *testing.T) {
		p := ExponentialParams{Rate: 0.5}
		a, b := NewGenerator().Seed(5, 6), NewGenerator().Seed(5, 6)

		out := make([]float64, n)
		assert.NoError(t, a.ExponentialWith(out, p))
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cs, err := b.CumsumExponentialWith(n, p)
		assert.NoError(t, err)
		cumsumTolerant(t, cs, sum)
	})

	t.Run("weibull", func(t *testing.T) {
		p := WeibullParams{K: 2, Lambda: 5}
		a, b := NewGenerator().Seed(7, 8), NewGenerator().Seed(7, 8)

		out := make([]float64, n)
		assert.NoError(t, a.WeibullWith(out, p))
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cs, err := b.CumsumWeibullWith(n, p)
		assert.NoError(t, err)
		cumsumTolerant(t, cs, sum)
	})

	t.Run("gamma", func(t *testing.T) {
		p := GammaParams{Alpha: 3, Theta: 2}
		a, b := NewGenerator().Seed(9, 10), NewGenerator().Seed(9, 10)

		out := make([]float64, n)
		assert.NoError(t, a.Gamma(out, p))
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cs, err := b.CumsumGamma(n, p)
		assert.NoError(t, err)
		cumsumTolerant(t, cs, sum)
	})

	t.Run("pareto", func(t *testing.T) {
		p := ParetoParams{Alpha: 3}
		a, b := NewGenerator().Seed(11, 12), NewGenerator().Seed(11, 12)

		out := make([]float64, n)
		assert.NoError(t, a.Pareto(out, p))
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cs, err := b.CumsumPareto(n, p)
		assert.NoError(t, err)
		cumsumTolerant(t, cs, sum)
	})

	t.Run("power", func(t *testing.T) {
		p := PowerParams{K: 2}
		a, b := NewGenerator().Seed(13, 14), NewGenerator().Seed(13, 14)

		out := make([]float64, n)
		assert.NoError(t, a.Power(out, p))
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cs, err := b.CumsumPower(n, p)
		assert.NoError(t, err)
		cumsumTolerant(t, cs, sum)
	})

	t.Run("delta", func(t *testing.T) {
		g := NewGenerator().Seed(15, 16)
		out := make([]float64, n)
		g.Delta(out, 4.5)
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		cumsumTolerant(t, g.CumsumDelta(n, 4.5), sum)
	})
}

func TestGenerator_DeltaDoesNotAdvanceState(t *testing.T) {
	g := NewGenerator().Seed(1, 1)
	before := g.State()

	out := make([]float64, 64)
	g.Delta(out, 3.14)
	for _, v := range out {
		assert.Equal(t, 3.14, v)
	}

	assert.Equal(t, before, g.State())

	g.CumsumDelta(64, 3.14)
	assert.Equal(t, before, g.State())
}

func TestGenerator_Decide(t *testing.T) {
	probe := NewGenerator().Seed(21, 22)
	g := NewGenerator().Seed(21, 22)

	p := []float64{0, 0.25, 0.5, 0.75, 1}
	want := make([]bool, len(p))
	for i, pi := range p {
		want[i] = probe.bits.Float64() <= pi
	}

	got := make([]bool, len(p))
	g.Decide(p, got)

	assert.Equal(t, want, got)
}

func TestGenerator_DecideMaskedSkipsFalsePositions(t *testing.T) {
	g := NewGenerator().Seed(30, 31)
	p := []float64{0.5, 0.5, 0.5, 0.5}
	mask := []bool{true, false, true, false}
	out := make([]bool, 4)
	out[1] = true
	out[3] = false

	stateBefore := g.State()
	g.DecideMasked(p, mask, out)

	verify := NewGenerator().Seed(30, 31)
	_ = stateBefore
	want0 := verify.bits.Float64() <= p[0]
	want2 := verify.bits.Float64() <= p[2]

	assert.Equal(t, want0, out[0])
	assert.True(t, out[1])
	assert.Equal(t, want2, out[2])
	assert.False(t, out[3])
}

func TestValidate_RejectsInvalidParameters(t *testing.T) {
	g := NewGenerator()
	out := make([]float64, 1)

	assert.ErrorIs(t, g.RandomWith(out, UniformParams{Scale: -1}), ErrInvalidParameter)
	assert.ErrorIs(t, g.NormalWith(out, NormalParams{Sigma: -1}), ErrInvalidParameter)
	assert.ErrorIs(t, g.ExponentialWith(out, ExponentialParams{Rate: -1}), ErrInvalidParameter)
	assert.ErrorIs(t, g.WeibullWith(out, WeibullParams{K: -1, Lambda: 1}), ErrInvalidParameter)
	assert.ErrorIs(t, g.Gamma(out, GammaParams{Alpha: -1}), ErrInvalidParameter)
	assert.ErrorIs(t, g.Pareto(out, ParetoParams{Alpha: 0}), ErrInvalidParameter)
	assert.ErrorIs(t, g.Power(out, PowerParams{K: 0}), ErrInvalidParameter)
	assert.ErrorIs(t, g.Randint(make([]int64, 1), 10, 5), ErrInvalidParameter)
}
