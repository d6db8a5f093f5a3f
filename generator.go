package pcg

// Generator is a typed facade over one PCG32 BitEngine, exposing the
// distribution library as vector-draw and scalar-cumsum methods plus the
// position-navigation primitives (State, Restore, Advance, Distance).
// A Generator owns its BitEngine exclusively.
type Generator struct {
	bits *PCG32
}

// NewGenerator returns a Generator seeded with the documented default
// state and sequence.
func NewGenerator() *Generator {
	return &Generator{bits: NewPCG32()}
}

// NewSeededGenerator returns a Generator seeded from the given state and
// sequence words.
func NewSeededGenerator(initState, initSeq uint64) *Generator {
	return &Generator{bits: NewPCG32().Seed(initState, initSeq)}
}

// Seed reinitializes the generator in place.
func (g *Generator) Seed(initState, initSeq uint64) *Generator {
	g.bits.Seed(initState, initSeq)
	return g
}

// State returns the generator's position-encoding raw state word.
func (g *Generator) State() uint64 { return g.bits.State() }

// Restore sets the generator's raw state word directly.
func (g *Generator) Restore(state uint64) *Generator {
	g.bits.Restore(state)
	return g
}

// Advance moves the generator forward (or backward, for delta < 0) by
// delta positions in O(log|delta|).
func (g *Generator) Advance(delta int64) *Generator {
	g.bits.Advance(delta)
	return g
}

// Distance returns the signed number of positions separating g from other:
// other.Advance(g.Distance(other)).State() == g.State(). Both generators
// must share the same stream (same InitSeq).
func (g *Generator) Distance(other *Generator) int64 {
	return g.bits.Distance(other.bits)
}

// InitState returns the constructor-supplied initial state.
func (g *Generator) InitState() uint64 { return g.bits.InitState() }

// InitSeq returns the constructor-supplied initial sequence.
func (g *Generator) InitSeq() uint64 { return g.bits.InitSeq() }

// Clone returns an independent Generator sharing the same stream and state.
func (g *Generator) Clone() *Generator {
	return &Generator{bits: g.bits.Clone()}
}

// StateAfter returns the state g would have after Advance(delta), without
// mutating g. Cheap (O(log|delta|)) for any delta, since PCG32's jump
// construction makes arbitrary offsets cheap, not just the immediate
// neighbourhood of the current position.
func (g *Generator) StateAfter(delta int64) uint64 {
	return g.bits.Clone().Advance(delta).State()
}

// Random fills out with independent Uniform(0,1) draws, advancing the
// generator by len(out).
func (g *Generator) Random(out []float64) error {
	return drawUniform(g.bits, out, DefaultUniformParams())
}

// RandomWith fills out with draws from Uniform(offset, offset+scale) per p.
func (g *Generator) RandomWith(out []float64, p UniformParams) error {
	return drawUniform(g.bits, out, p)
}

// CumsumRandom advances the generator by n and returns the sum of the n
// uniform draws it would have produced, using the documented default
// parameters.
func (g *Generator) CumsumRandom(n int) (float64, error) {
	return cumsumUniform(g.bits, n, DefaultUniformParams())
}

// CumsumRandomWith is CumsumRandom with explicit scale/offset.
func (g *Generator) CumsumRandomWith(n int, p UniformParams) (float64, error) {
	return cumsumUniform(g.bits, n, p)
}

// Normal fills out with standard normal draws.
func (g *Generator) Normal(out []float64) error {
	return drawNormal(g.bits, out, DefaultNormalParams())
}

// NormalWith fills out with Normal(mu, sigma) draws per p.
func (g *Generator) NormalWith(out []float64, p NormalParams) error {
	return drawNormal(g.bits, out, p)
}

func (g *Generator) CumsumNormal(n int) (float64, error) {
	return cumsumNormal(g.bits, n, DefaultNormalParams())
}

func (g *Generator) CumsumNormalWith(n int, p NormalParams) (float64, error) {
	return cumsumNormal(g.bits, n, p)
}

// Exponential fills out with rate-1 exponential draws.
func (g *Generator) Exponential(out []float64) error {
	return drawExponential(g.bits, out, DefaultExponentialParams())
}

func (g *Generator) ExponentialWith(out []float64, p ExponentialParams) error {
	return drawExponential(g.bits, out, p)
}

func (g *Generator) CumsumExponential(n int) (float64, error) {
	return cumsumExponential(g.bits, n, DefaultExponentialParams())
}

func (g *Generator) CumsumExponentialWith(n int, p ExponentialParams) (float64, error) {
	return cumsumExponential(g.bits, n, p)
}

// Weibull fills out with k=1, lambda=1 weibull draws (i.e. exponential).
func (g *Generator) Weibull(out []float64) error {
	return drawWeibull(g.bits, out, DefaultWeibullParams())
}

func (g *Generator) WeibullWith(out []float64, p WeibullParams) error {
	return drawWeibull(g.bits, out, p)
}

func (g *Generator) CumsumWeibull(n int) (float64, error) {
	return cumsumWeibull(g.bits, n, DefaultWeibullParams())
}

func (g *Generator) CumsumWeibullWith(n int, p WeibullParams) (float64, error) {
	return cumsumWeibull(g.bits, n, p)
}

// Gamma fills out with Gamma(alpha, theta) draws; there is no documented
// default for Alpha, so it must always be supplied.
func (g *Generator) Gamma(out []float64, p GammaParams) error {
	return drawGamma(g.bits, out, p)
}

func (g *Generator) CumsumGamma(n int, p GammaParams) (float64, error) {
	return cumsumGamma(g.bits, n, p)
}

// Pareto fills out with Pareto(alpha) draws; Alpha must always be supplied.
func (g *Generator) Pareto(out []float64, p ParetoParams) error {
	return drawPareto(g.bits, out, p)
}

func (g *Generator) CumsumPareto(n int, p ParetoParams) (float64, error) {
	return cumsumPareto(g.bits, n, p)
}

// Power fills out with Power(k) draws; K must always be supplied.
func (g *Generator) Power(out []float64, p PowerParams) error {
	return drawPower(g.bits, out, p)
}

func (g *Generator) CumsumPower(n int, p PowerParams) (float64, error) {
	return cumsumPower(g.bits, n, p)
}

// Delta fills out with the constant mu, without advancing the generator.
func (g *Generator) Delta(out []float64, mu float64) {
	drawDelta(out, DeltaParams{Mu: mu})
}

// CumsumDelta returns n*mu, without advancing the generator (mirrors Delta).
func (g *Generator) CumsumDelta(n int, mu float64) float64 {
	return cumsumDelta(n, DeltaParams{Mu: mu})
}

// Randint fills out with integers in [low, high), advancing the generator
// by len(out).
func (g *Generator) Randint(out []int64, low, high int64) error {
	return randint(g.bits, out, low, high)
}

// Decide fills out[i] with true when a fresh uniform draw is <= p[i],
// advancing the generator by len(p).
func (g *Generator) Decide(p []float64, out []bool) {
	decide(g.bits, p, out)
}

// DecideMasked is Decide restricted to positions where mask is true; other
// positions keep their existing out value and consume no generator state.
func (g *Generator) DecideMasked(p []float64, mask []bool, out []bool) {
	decideMasked(g.bits, p, mask, out)
}
