package pcg

import "fmt"

// DrawFunc draws n values starting at the chunk's generator's current
// position, advancing it by n, and returns them in draw order (not yet
// accumulated into a running sum).
type DrawFunc func(n int) ([]float64, error)

// CumsumFunc advances the chunk's generator by n and returns the scalar sum
// of the n draws it would have produced, without materialising them.
type CumsumFunc func(n int) (float64, error)

// chunkState tracks where a CumsumChunk sits in the lifecycle spec.md
// section 4.5 describes: a freshly constructed chunk has drawn nothing yet,
// a positioned one holds a real window, an aligned one additionally has a
// valid IndexAtAlign/LeftOfAlign/RightOfAlign triple for the most recent
// Align/AlignAt call.
type chunkState int

const (
	chunkUnpositioned chunkState = iota
	chunkPositioned
	chunkAligned
)

// anchor is the (state, value, index) triple needed to reconstruct a
// CumsumChunk's window: the generator state that produces the draw at a
// given global index, and the cumulative-sum value just before that draw
// (the window's data[0] is value plus that draw). A PCG32 state alone reproduces future draws exactly,
// but the running floating-point total is not recoverable from the bit
// state -- it depends on every draw since global index 0 -- so it must be
// carried alongside the state explicitly.
type anchor struct {
	state uint64
	value float64
	index uint64
}

// CumsumChunk is a fixed-size sliding window over an infinite cumulative
// sum of draws from one Generator. It is the structure spec.md's Array
// facade builds on for chunked, memory-bounded traversal of a cumulative
// sum too large (or too sparse-access) to materialise in full.
//
// Forward movement (DrawChunk, Next, and the forward half of Align) is
// always cheap: PCG32's jump construction makes advancing the generator to
// any future position an O(log n) operation, and the batched cumsum
// functions give the scalar running total at that position without
// storing the individual values. Backward movement (Prev, and the backward
// half of Align) is cheaper still in bit terms but only correct if the
// chunk has already visited the target position and cached its anchor --
// the cumulative total there is real application data, not something a
// bare generator state can regenerate. A CumsumChunk keeps a stack
// of such anchors as it moves forward and pops from it on the way back;
// asking to go back further than it has been raises ErrAlignmentUnreachable.
type CumsumChunk struct {
	gen    *Generator
	policy AlignPolicy

	data  []float64
	start uint64

	anchor  anchor
	history []anchor

	drawFn   DrawFunc
	cumsumFn CumsumFunc

	state chunkState

	indexAtAlign uint64
	leftOfAlign  float64
	rightOfAlign float64
}

// NewCumsumChunk returns an unpositioned chunk of the given size, owning a
// freshly seeded Generator. Its bookkeeping assumes the generator starts
// at global index 0; call Restore first if that is not the case.
func NewCumsumChunk(n int, policy AlignPolicy) *CumsumChunk {
	return &CumsumChunk{
		gen:    NewGenerator(),
		policy: policy,
		data:   make([]float64, n),
	}
}

// NewCumsumChunkFromGenerator is NewCumsumChunk, but the chunk draws from
// an existing Generator instead of minting its own. The caller asserts gen
// is at the chunk's global index 0; use Restore to correct this if not.
func NewCumsumChunkFromGenerator(gen *Generator, n int, policy AlignPolicy) *CumsumChunk {
	return &CumsumChunk{
		gen:    gen,
		policy: policy,
		data:   make([]float64, n),
	}
}

// SetFunctions binds the draw and cumsum callbacks the chunk uses for
// DrawChunk, Next, Prev, and Align. Most callers reach for one of the named
// Set<Distribution> helpers instead.
func (c *CumsumChunk) SetFunctions(draw DrawFunc, cumsum CumsumFunc) *CumsumChunk {
	c.drawFn = draw
	c.cumsumFn = cumsum
	return c
}

func namedDrawFn(g *Generator, draw func(*PCG32, []float64) error, offset float64) DrawFunc {
	return func(n int) ([]float64, error) {
		out := make([]float64, n)
		if err := draw(g.bits, out); err != nil {
			return nil, err
		}
		if offset != 0 {
			for i := range out {
				out[i] += offset
			}
		}
		return out, nil
	}
}

func namedCumsumFn(g *Generator, cumsum func(*PCG32, int) (float64, error), offset float64) CumsumFunc {
	return func(n int) (float64, error) {
		sum, err := cumsum(g.bits, n)
		if err != nil {
			return 0, err
		}
		return sum + float64(n)*offset, nil
	}
}

// SetDelta binds the chunk to a constant-offset sequence. Like Generator.Delta,
// this never advances the generator.
func (c *CumsumChunk) SetDelta(mu, offset float64) *CumsumChunk {
	c.drawFn = func(n int) ([]float64, error) {
		out := make([]float64, n)
		drawDelta(out, DeltaParams{Mu: mu})
		for i := range out {
			out[i] += offset
		}
		return out, nil
	}
	c.cumsumFn = func(n int) (float64, error) {
		return cumsumDelta(n, DeltaParams{Mu: mu}) + float64(n)*offset, nil
	}
	return c
}

func (c *CumsumChunk) SetRandom(p UniformParams, offset float64) *CumsumChunk {
	c.drawFn = namedDrawFn(c.gen, func(g *PCG32, out []float64) error { return drawUniform(g, out, p) }, offset)
	c.cumsumFn = namedCumsumFn(c.gen, func(g *PCG32, n int) (float64, error) { return cumsumUniform(g, n, p) }, offset)
	return c
}

func (c *CumsumChunk) SetNormal(p NormalParams, offset float64) *CumsumChunk {
	c.drawFn = namedDrawFn(c.gen, func(g *PCG32, out []float64) error { return drawNormal(g, out, p) }, offset)
	c.cumsumFn = namedCumsumFn(c.gen, func(g *PCG32, n int) (float64, error) { return cumsumNormal(g, n, p) }, offset)
	return c
}

func (c *CumsumChunk) SetExponential(p ExponentialParams, offset float64) *CumsumChunk {
	c.drawFn = namedDrawFn(c.gen, func(g *PCG32, out []float64) error { return drawExponential(g, out, p) }, offset)
	c.cumsumFn = namedCumsumFn(c.gen, func(g *PCG32, n int) (float64, error) { return cumsumExponential(g, n, p) }, offset)
	return c
}

func (c *CumsumChunk) SetWeibull(p WeibullParams, offset float64) *CumsumChunk {
	c.drawFn = namedDrawFn(c.gen, func(g *PCG32, out []float64) error { return drawWeibull(g, out, p) }, offset)
	c.cumsumFn = namedCumsumFn(c.gen, func(g *PCG32, n int) (float64, error) { return cumsumWeibull(g, n, p) }, offset)
	return c
}

func (c *CumsumChunk) SetGamma(p GammaParams, offset float64) *CumsumChunk {
	c.drawFn = namedDrawFn(c.gen, func(g *PCG32, out []float64) error { return drawGamma(g, out, p) }, offset)
	c.cumsumFn = namedCumsumFn(c.gen, func(g *PCG32, n int) (float64, error) { return cumsumGamma(g, n, p) }, offset)
	return c
}

func (c *CumsumChunk) SetPareto(p ParetoParams, offset float64) *CumsumChunk {
	c.drawFn = namedDrawFn(c.gen, func(g *PCG32, out []float64) error { return drawPareto(g, out, p) }, offset)
	c.cumsumFn = namedCumsumFn(c.gen, func(g *PCG32, n int) (float64, error) { return cumsumPareto(g, n, p) }, offset)
	return c
}

func (c *CumsumChunk) SetPower(p PowerParams, offset float64) *CumsumChunk {
	c.drawFn = namedDrawFn(c.gen, func(g *PCG32, out []float64) error { return drawPower(g, out, p) }, offset)
	c.cumsumFn = namedCumsumFn(c.gen, func(g *PCG32, n int) (float64, error) { return cumsumPower(g, n, p) }, offset)
	return c
}

// DrawChunk fills the buffer starting at the generator's current position,
// using whichever baseline is currently cached in the chunk's anchor (zero
// for a never-yet-positioned chunk). It does not move start; the caller is
// responsible for start and the generator's position agreeing before the
// first call (the constructors assume both are 0).
func (c *CumsumChunk) DrawChunk() error {
	if c.drawFn == nil {
		return fmt.Errorf("%w: chunk has no draw function bound (call SetFunctions or a named Set<Dist>)", ErrInvalidParameter)
	}
	if len(c.data) == 0 {
		return ErrEmptyBuffer
	}
	baseline := c.anchor.value
	beforeState := c.gen.State()
	draws, err := c.drawFn(len(c.data))
	if err != nil {
		return err
	}
	sum := baseline
	for i, d := range draws {
		sum += d
		c.data[i] = sum
	}
	c.anchor = anchor{state: beforeState, value: baseline, index: c.start}
	c.history = c.history[:0]
	c.state = chunkPositioned
	return nil
}

// Next shifts the window forward by size-margin positions: the last margin
// values are kept (becoming the new buffer's prefix), and size-margin
// fresh values are drawn to fill the rest. The pre-shift anchor is pushed
// onto the history stack so a later Prev with a matching margin can undo
// this exact step.
func (c *CumsumChunk) Next(margin uint64) error {
	n := uint64(len(c.data))
	if margin > n {
		return fmt.Errorf("%w: margin (%d) must be <= chunk size (%d)", ErrInvalidParameter, margin, n)
	}
	if c.drawFn == nil {
		return fmt.Errorf("%w: chunk has no draw function bound", ErrInvalidParameter)
	}
	shift := n - margin
	tailValue := c.data[n-1]
	preserved := append([]float64(nil), c.data[n-margin:]...)
	value := c.anchor.value
	if shift > 0 {
		value = c.data[shift-1]
	}

	c.history = append(c.history, c.anchor)
	draws, err := c.drawFn(int(shift))
	if err != nil {
		c.history = c.history[:len(c.history)-1]
		return err
	}

	newData := make([]float64, n)
	copy(newData[:margin], preserved)
	sum := tailValue
	for i, d := range draws {
		sum += d
		newData[int(margin)+i] = sum
	}
	c.data = newData
	c.start += shift
	c.anchor = anchor{
		state: c.gen.StateAfter(-int64(n)),
		value: value,
		index: c.start,
	}
	c.state = chunkPositioned
	return nil
}

// Prev undoes a previous forward shift of size-margin positions. It only
// succeeds if the chunk's history contains an anchor recorded at exactly
// the resulting global index -- i.e. the chunk was, at some point in its
// past, positioned there by DrawChunk or Next. There is no way to recover
// an arbitrary earlier cumulative-sum value from the generator state alone.
func (c *CumsumChunk) Prev(margin uint64) error {
	n := uint64(len(c.data))
	if margin > n {
		return fmt.Errorf("%w: margin (%d) must be <= chunk size (%d)", ErrInvalidParameter, margin, n)
	}
	if c.drawFn == nil {
		return fmt.Errorf("%w: chunk has no draw function bound", ErrInvalidParameter)
	}
	shift := n - margin
	if shift > c.start {
		return ErrAlignmentUnreachable
	}
	newStart := c.start - shift

	idx := -1
	for i := len(c.history) - 1; i >= 0; i-- {
		if c.history[i].index == newStart {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrAlignmentUnreachable
	}
	target := c.history[idx]
	c.gen.Restore(target.state)
	draws, err := c.drawFn(int(n))
	if err != nil {
		return err
	}
	newData := make([]float64, n)
	sum := target.value
	for i, d := range draws {
		sum += d
		newData[i] = sum
	}
	c.data = newData
	c.start = newStart
	c.anchor = target
	c.history = c.history[:idx]
	c.state = chunkPositioned
	return nil
}

// Add shifts every value in the buffer (and the cached anchor value) by x
// in place. Used to establish an initial additive offset on a chunk that
// has already been drawn.
func (c *CumsumChunk) Add(x float64) {
	for i := range c.data {
		c.data[i] += x
	}
	c.anchor.value += x
}

// Restore relocates the chunk to a previously recorded (state, value,
// index) triple without redrawing. Callers follow it with DrawChunk to
// materialise the buffer there; this matches the testable property that
// restore followed by draw_chunk reproduces the original data bitwise.
func (c *CumsumChunk) Restore(state uint64, value float64, index uint64) *CumsumChunk {
	c.gen.Restore(state)
	c.start = index
	c.anchor = anchor{state: state, value: value, index: index}
	c.history = c.history[:0]
	c.state = chunkUnpositioned
	return c
}

// StateAt returns the generator state at the given global index, computed
// by advancing a clone of the chunk's generator from its current position
// (which invariantly sits at start+size). This is cheap for any index, not
// just start and start+size, because PCG32's jump construction makes an
// arbitrary advance O(log|delta|).
func (c *CumsumChunk) StateAt(globalIndex uint64) uint64 {
	n := uint64(len(c.data))
	delta := int64(globalIndex) - int64(c.start+n)
	return c.gen.StateAfter(delta)
}

const maxAlignChunkSkips = 1 << 20

// alignStepForward repeatedly skips one whole chunk width using the bound
// cumsum callback -- without storing its individual values -- until the
// target value falls at or before the skipped-to tail, then rewinds the
// one chunk-width skip that overshot and redraws it for real with
// DrawChunk. Each whole-chunk skip pushes its pre-skip anchor onto history
// so a later backward Align can retrace the same ground.
func (c *CumsumChunk) alignStepForward(target float64) error {
	n := len(c.data)
	for i := 0; i < maxAlignChunkSkips; i++ {
		if target <= c.data[n-1] {
			return nil
		}
		prevAnchor := c.anchor
		prevTail := c.data[n-1]
		sum, err := c.cumsumFn(n)
		if err != nil {
			return err
		}
		tail := prevTail + sum
		c.history = append(c.history, prevAnchor)
		c.start += uint64(n)
		if tail >= target {
			c.gen.Advance(-int64(n))
			c.anchor = anchor{state: c.gen.State(), value: prevTail, index: c.start}
			history := c.history
			if err := c.DrawChunk(); err != nil {
				return err
			}
			c.history = history
			return nil
		}
		c.anchor = anchor{state: c.gen.StateAfter(-int64(n)), value: prevTail, index: c.start}
		for j := range c.data {
			c.data[j] = tail
		}
	}
	return ErrAlignmentUnreachable
}

// alignStepBackward searches the history stack (most recent first) for the
// most recent anchor whose cumulative value does not exceed target, jumps
// the generator there directly, and redraws. It fails with
// ErrAlignmentUnreachable if the chunk has never visited a position with a
// low enough value.
func (c *CumsumChunk) alignStepBackward(target float64) error {
	for target < c.data[0] {
		idx := -1
		for i := len(c.history) - 1; i >= 0; i-- {
			if c.history[i].value <= target {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrAlignmentUnreachable
		}
		found := c.history[idx]
		c.history = c.history[:idx]
		c.gen.Restore(found.state)
		c.start = found.index
		c.anchor = found
		if err := c.DrawChunk(); err != nil {
			return err
		}
	}
	return nil
}

// upperBoundIndex returns the largest i such that data[i] <= target,
// assuming data is non-decreasing. Ties resolve to the largest matching
// index, per the Open Question decision recorded in SPEC_FULL.md section 12.
func upperBoundIndex(data []float64, target float64) int {
	lo, hi, result := 0, len(data)-1, 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if data[mid] <= target {
			result = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return result
}

// Align repositions the chunk so that target falls between two adjacent
// buffer values, with at least MinMargin (loose) or exactly Margin
// (strict) entries preceding it. Targets outside the current window are
// reached first via alignStepForward/alignStepBackward; once target is
// within [data[0], data[size-1]], the chunk is rebased in place by calling
// Next or Prev with an adjusted margin so the target lands at the required
// local index -- no rebinary-search is needed after that shift, because
// the target's position relative to the underlying infinite sequence does
// not change, only its expression in the window's local coordinates.
func (c *CumsumChunk) Align(target float64) error {
	n := len(c.data)
	if n == 0 {
		return ErrEmptyBuffer
	}
	// A handful of forward/backward corrections always suffices to land
	// inside the window; bounding the loop turns a hypothetical oscillation
	// between two boundary-adjacent chunks into a clean error instead of a
	// hang.
	const maxAlignCorrections = 8
	for corrections := 0; ; corrections++ {
		if target < c.data[0] {
			if corrections >= maxAlignCorrections {
				return ErrAlignmentUnreachable
			}
			if err := c.alignStepBackward(target); err != nil {
				return err
			}
			continue
		}
		if target > c.data[n-1] {
			if corrections >= maxAlignCorrections {
				return ErrAlignmentUnreachable
			}
			if err := c.alignStepForward(target); err != nil {
				return err
			}
			continue
		}
		break
	}

	i := upperBoundIndex(c.data, target)
	mi := i
	if c.policy.Strict {
		mi = int(c.policy.Margin)
	} else {
		mi = clamp(i, int(c.policy.MinMargin), n-int(c.policy.MinMargin)-1)
	}
	if mi < 0 {
		mi = 0
	}
	if mi > n-2 {
		mi = n - 2
	}

	if mi != i {
		shiftAmt := i - mi
		var err error
		if shiftAmt > 0 {
			err = c.Next(uint64(n - shiftAmt))
		} else {
			err = c.Prev(uint64(n + shiftAmt))
		}
		if err != nil {
			return err
		}
	}

	c.indexAtAlign = c.start + uint64(mi)
	c.leftOfAlign = c.data[mi]
	c.rightOfAlign = c.data[mi+1]
	c.state = chunkAligned
	return nil
}

// AlignWeibull binds the weibull distribution and aligns to target in one
// call, mirroring spec.md's draw_chunk_<dist>/align_<dist> naming.
func (c *CumsumChunk) AlignWeibull(target float64, p WeibullParams, offset float64) error {
	c.SetWeibull(p, offset)
	return c.Align(target)
}

func (c *CumsumChunk) AlignNormal(target float64, p NormalParams, offset float64) error {
	c.SetNormal(p, offset)
	return c.Align(target)
}

func (c *CumsumChunk) AlignExponential(target float64, p ExponentialParams, offset float64) error {
	c.SetExponential(p, offset)
	return c.Align(target)
}

func (c *CumsumChunk) AlignGamma(target float64, p GammaParams, offset float64) error {
	c.SetGamma(p, offset)
	return c.Align(target)
}

func (c *CumsumChunk) AlignPareto(target float64, p ParetoParams, offset float64) error {
	c.SetPareto(p, offset)
	return c.Align(target)
}

func (c *CumsumChunk) AlignPower(target float64, p PowerParams, offset float64) error {
	c.SetPower(p, offset)
	return c.Align(target)
}

func (c *CumsumChunk) AlignRandom(target float64, p UniformParams, offset float64) error {
	c.SetRandom(p, offset)
	return c.Align(target)
}

// AlignAt repositions directly to a global index, with no target value
// consulted: it jumps the generator by raw advance(delta) and redraws.
// Because a bit-state jump cannot reconstruct the true cumulative-sum
// value at an arbitrary, never-visited global index (that total depends
// on every draw since index 0, not just the generator's future output),
// the chunk's running baseline resets to 0 at the landing point. Callers
// who need the true global total preserved across the jump should reach
// the index via Align(target) or a chain of Next/Prev instead.
func (c *CumsumChunk) AlignAt(globalIndex uint64) error {
	n := uint64(len(c.data))
	mi := c.policy.Margin
	if !c.policy.Strict {
		mi = c.policy.MinMargin
	}
	if mi >= n {
		return fmt.Errorf("%w: margin %d must be < chunk size %d", ErrInvalidParameter, mi, n)
	}
	if globalIndex < mi {
		return ErrAlignmentUnreachable
	}
	newStart := globalIndex - mi
	advanceBy := int64(newStart) - int64(c.start+n)
	c.gen.Advance(advanceBy)
	c.start = newStart
	c.anchor = anchor{state: c.gen.State(), value: 0, index: newStart}
	c.history = c.history[:0]
	if err := c.DrawChunk(); err != nil {
		return err
	}
	c.indexAtAlign = globalIndex
	c.leftOfAlign = c.data[mi]
	if mi+1 < n {
		c.rightOfAlign = c.data[mi+1]
	}
	c.state = chunkAligned
	return nil
}

func (c *CumsumChunk) Data() []float64           { return c.data }
func (c *CumsumChunk) Start() uint64             { return c.start }
func (c *CumsumChunk) Size() int                 { return len(c.data) }
func (c *CumsumChunk) IndexAtAlign() uint64      { return c.indexAtAlign }
func (c *CumsumChunk) LeftOfAlign() float64      { return c.leftOfAlign }
func (c *CumsumChunk) RightOfAlign() float64     { return c.rightOfAlign }
func (c *CumsumChunk) Generator() *Generator     { return c.gen }
func (c *CumsumChunk) Policy() AlignPolicy       { return c.policy }
func (c *CumsumChunk) AnchorValue() float64      { return c.anchor.value }
func (c *CumsumChunk) AnchorState() uint64       { return c.anchor.state }
