package pcg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
)

// Distribution parameter records. Each mirrors one row of spec.md's
// distribution table; zero value is documented per-type below.

// DeltaParams is the constant-offset "distribution": every draw is Mu.
type DeltaParams struct{ Mu float64 }

// UniformParams is the "random" distribution. Its zero value (Scale 0)
// passes validation but is degenerate; DefaultUniformParams gives the
// documented default.
type UniformParams struct{ Scale, Offset float64 }

// NormalParams. Its zero value (Mu 0, Sigma 0) passes validation but is
// degenerate; DefaultNormalParams gives the documented default (standard
// normal).
type NormalParams struct{ Mu, Sigma float64 }

// ExponentialParams. Its zero value passes validation but is degenerate;
// DefaultExponentialParams gives the documented default (rate 1).
type ExponentialParams struct{ Rate float64 }

// WeibullParams. Its zero value passes validation but is degenerate;
// DefaultWeibullParams gives the documented default (k=1, lambda=1, i.e.
// the exponential distribution).
type WeibullParams struct{ K, Lambda float64 }

// GammaParams has no documented default -- Alpha must be supplied by the
// caller (spec only constrains Alpha >= 0, Theta defaults to 1 when zero).
type GammaParams struct{ Alpha, Theta float64 }

// ParetoParams has no documented default; Alpha must be supplied.
type ParetoParams struct{ Alpha float64 }

// PowerParams has no documented default; K must be supplied.
type PowerParams struct{ K float64 }

func DefaultUniformParams() UniformParams         { return UniformParams{Scale: 1, Offset: 0} }
func DefaultNormalParams() NormalParams           { return NormalParams{Mu: 0, Sigma: 1} }
func DefaultExponentialParams() ExponentialParams { return ExponentialParams{Rate: 1} }
func DefaultWeibullParams() WeibullParams         { return WeibullParams{K: 1, Lambda: 1} }

func (p UniformParams) validate() error {
	if p.Scale < 0 {
		return fmt.Errorf("%w: uniform scale must be >= 0, got %g", ErrInvalidParameter, p.Scale)
	}
	return nil
}

func (p NormalParams) validate() error {
	if p.Sigma < 0 {
		return fmt.Errorf("%w: normal sigma must be >= 0, got %g", ErrInvalidParameter, p.Sigma)
	}
	return nil
}

func (p ExponentialParams) validate() error {
	if p.Rate < 0 {
		return fmt.Errorf("%w: exponential rate must be >= 0, got %g", ErrInvalidParameter, p.Rate)
	}
	return nil
}

func (p WeibullParams) validate() error {
	if p.K < 0 || p.Lambda < 0 {
		return fmt.Errorf("%w: weibull k and lambda must be >= 0, got k=%g lambda=%g", ErrInvalidParameter, p.K, p.Lambda)
	}
	return nil
}

func (p GammaParams) validate() error {
	if p.Alpha < 0 {
		return fmt.Errorf("%w: gamma alpha must be >= 0, got %g", ErrInvalidParameter, p.Alpha)
	}
	return nil
}

func (p ParetoParams) validate() error {
	if p.Alpha <= 0 {
		return fmt.Errorf("%w: pareto alpha must be > 0, got %g", ErrInvalidParameter, p.Alpha)
	}
	return nil
}

func (p PowerParams) validate() error {
	if p.K <= 0 {
		return fmt.Errorf("%w: power k must be > 0, got %g", ErrInvalidParameter, p.K)
	}
	return nil
}

// theta returns p.Theta, treating the zero value as the documented
// default of 1 (mirrors the table's "theta=1" default).
func (p GammaParams) theta() float64 {
	if p.Theta == 0 {
		return 1
	}
	return p.Theta
}

// Quantile functions Q(u) = F^-1(u), pure and side-effect-free.

func deltaQuantile(p DeltaParams) float64 { return p.Mu }

func uniformQuantile(u float64, p UniformParams) float64 { return p.Offset + p.Scale*u }

func normalQuantile(u float64, p NormalParams) float64 {
	return p.Mu + p.Sigma*math.Sqrt2*mathext.Erfinv(2*u-1)
}

func exponentialQuantile(u float64, p ExponentialParams) float64 {
	return -math.Log(1-u) / p.Rate
}

func weibullQuantile(u float64, p WeibullParams) float64 {
	return p.Lambda * math.Pow(-math.Log(1-u), 1/p.K)
}

func gammaQuantile(u float64, p GammaParams) float64 {
	return p.theta() * mathext.GammaIncRegInv(p.Alpha, u)
}

func paretoQuantile(u float64, p ParetoParams) float64 {
	return math.Pow(1-u, -1/p.Alpha)
}

func powerQuantile(u float64, p PowerParams) float64 {
	return math.Pow(u, 1/p.K)
}

// CDF and PDF, per spec.md section 4.2's contract that each distribution
// exposes pdf/cdf/quantile as pure functions.

func uniformCDF(x float64, p UniformParams) float64 {
	if p.Scale == 0 {
		if x < p.Offset {
			return 0
		}
		return 1
	}
	c := (x - p.Offset) / p.Scale
	return math.Min(1, math.Max(0, c))
}

func uniformPDF(x float64, p UniformParams) float64 {
	if x < p.Offset || x > p.Offset+p.Scale {
		return 0
	}
	if p.Scale == 0 {
		return math.Inf(1)
	}
	return 1 / p.Scale
}

func normalCDF(x float64, p NormalParams) float64 {
	return 0.5 * (1 + math.Erf((x-p.Mu)/(p.Sigma*math.Sqrt2)))
}

func normalPDF(x float64, p NormalParams) float64 {
	z := (x - p.Mu) / p.Sigma
	return math.Exp(-0.5*z*z) / (p.Sigma * math.Sqrt(2*math.Pi))
}

func exponentialCDF(x float64, p ExponentialParams) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-p.Rate*x)
}

func exponentialPDF(x float64, p ExponentialParams) float64 {
	if x < 0 {
		return 0
	}
	return p.Rate * math.Exp(-p.Rate*x)
}

func weibullCDF(x float64, p WeibullParams) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-math.Pow(x/p.Lambda, p.K))
}

func weibullPDF(x float64, p WeibullParams) float64 {
	if x < 0 {
		return 0
	}
	return (p.K / p.Lambda) * math.Pow(x/p.Lambda, p.K-1) * math.Exp(-math.Pow(x/p.Lambda, p.K))
}

func gammaCDF(x float64, p GammaParams) float64 {
	if x < 0 {
		return 0
	}
	return mathext.GammaIncReg(p.Alpha, x/p.theta())
}

func gammaPDF(x float64, p GammaParams) float64 {
	if x < 0 {
		return 0
	}
	theta := p.theta()
	return math.Pow(x, p.Alpha-1) * math.Exp(-x/theta) / (math.Gamma(p.Alpha) * math.Pow(theta, p.Alpha))
}

func paretoCDF(x float64, p ParetoParams) float64 {
	if x < 1 {
		return 0
	}
	return 1 - math.Pow(x, -p.Alpha)
}

func paretoPDF(x float64, p ParetoParams) float64 {
	if x < 1 {
		return 0
	}
	return p.Alpha / math.Pow(x, p.Alpha+1)
}

func powerCDF(x float64, p PowerParams) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return math.Pow(x, p.K)
}

func powerPDF(x float64, p PowerParams) float64 {
	if x < 0 || x > 1 {
		return 0
	}
	return p.K * math.Pow(x, p.K-1)
}

// Draw functions. Each advances g by exactly len(out) positions, except
// Delta, which never touches the generator (spec.md section 4.2's
// documented exception: it lets chunked code treat a constant-offset
// sequence uniformly, without burning generator state for a value that
// does not depend on it).

func drawDelta(out []float64, p DeltaParams) {
	mu := deltaQuantile(p)
	for i := range out {
		out[i] = mu
	}
}

func drawUniform(g *PCG32, out []float64, p UniformParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i := range out {
		out[i] = uniformQuantile(g.Float64(), p)
	}
	return nil
}

func drawNormal(g *PCG32, out []float64, p NormalParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i := range out {
		out[i] = normalQuantile(g.Float64(), p)
	}
	return nil
}

func drawExponential(g *PCG32, out []float64, p ExponentialParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i := range out {
		out[i] = exponentialQuantile(g.Float64(), p)
	}
	return nil
}

func drawWeibull(g *PCG32, out []float64, p WeibullParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i := range out {
		out[i] = weibullQuantile(g.Float64(), p)
	}
	return nil
}

func drawGamma(g *PCG32, out []float64, p GammaParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i := range out {
		out[i] = gammaQuantile(g.Float64(), p)
	}
	return nil
}

func drawPareto(g *PCG32, out []float64, p ParetoParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i := range out {
		out[i] = paretoQuantile(g.Float64(), p)
	}
	return nil
}

func drawPower(g *PCG32, out []float64, p PowerParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i := range out {
		out[i] = powerQuantile(g.Float64(), p)
	}
	return nil
}

// Cumsum functions: advance g by exactly n positions and return the scalar
// sum of the n draws g would actually have produced -- the literal sum of
// quantile(u_i) over the n uniforms g draws, not an expected-value
// substitute. A population mean times n is a different number from the
// realized stream's sum (it differs by the stream's actual sampling
// variance, O(sigma*sqrt(n))), so every distribution below evaluates its
// quantile at each of the n draws it consumes, exactly like the matching
// Draw function, and folds the running total instead of materialising
// the slice. Delta mirrors Draw and does not touch the generator.

func cumsumDelta(n int, p DeltaParams) float64 {
	return float64(n) * deltaQuantile(p)
}

func cumsumUniform(g *PCG32, n int, p UniformParams) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += uniformQuantile(g.Float64(), p)
	}
	return sum, nil
}

func cumsumNormal(g *PCG32, n int, p NormalParams) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += normalQuantile(g.Float64(), p)
	}
	return sum, nil
}

func cumsumExponential(g *PCG32, n int, p ExponentialParams) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += exponentialQuantile(g.Float64(), p)
	}
	return sum, nil
}

func cumsumWeibull(g *PCG32, n int, p WeibullParams) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += weibullQuantile(g.Float64(), p)
	}
	return sum, nil
}

func cumsumGamma(g *PCG32, n int, p GammaParams) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += gammaQuantile(g.Float64(), p)
	}
	return sum, nil
}

func cumsumPareto(g *PCG32, n int, p ParetoParams) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += paretoQuantile(g.Float64(), p)
	}
	return sum, nil
}

func cumsumPower(g *PCG32, n int, p PowerParams) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += powerQuantile(g.Float64(), p)
	}
	return sum, nil
}

// decide draws one uniform per position and reports whether it fell at or
// below the matching probability. Advances g by len(p) positions.
func decide(g *PCG32, p []float64, out []bool) {
	for i, pi := range p {
		out[i] = g.Float64() <= pi
	}
}

// decideMasked is decide restricted to positions where mask is true;
// positions where mask is false keep their existing out value and consume
// no generator state.
func decideMasked(g *PCG32, p []float64, mask []bool, out []bool) {
	for i, pi := range p {
		if !mask[i] {
			continue
		}
		out[i] = g.Float64() <= pi
	}
}

// randint fills out with values in [low, high), mapping each drawn uniform
// by multiplication rather than rejection sampling (uniform to within
// 32-bit granularity, per spec.md section 4.2).
func randint(g *PCG32, out []int64, low, high int64) error {
	if high <= low {
		return fmt.Errorf("%w: randint high (%d) must be > low (%d)", ErrInvalidParameter, high, low)
	}
	span := float64(high - low)
	for i := range out {
		out[i] = low + int64(g.Float64()*span)
	}
	return nil
}
