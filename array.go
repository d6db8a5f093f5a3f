package pcg

import "fmt"

// arraySize returns the row-major element count of shape.
func arraySize(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// linearIndex maps a per-axis index into shape's row-major linear index,
// the same storage convention gonum's dense matrices use for their
// backing slice.
func linearIndex(shape, idx []int) (int, error) {
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("%w: expected %d indices, got %d", ErrInvalidParameter, len(shape), len(idx))
	}
	linear := 0
	for d, s := range shape {
		if idx[d] < 0 || idx[d] >= s {
			return 0, fmt.Errorf("%w: index %d out of range [0,%d) on axis %d", ErrInvalidParameter, idx[d], s, d)
		}
		linear = linear*s + idx[d]
	}
	return linear, nil
}

// Array is a shape-preserving collection of independent Generators, one
// per cell, stored as a flat row-major slice alongside the shape that
// indexes it. Every cell is an ordinary Generator: drawing from one cell
// never touches another's state.
type Array struct {
	shape []int
	cells []*Generator
}

// NewArray returns an Array of the given shape, every cell freshly seeded
// with the documented default stream -- every cell then shares the same
// stream, which is only useful for shape bookkeeping until Restore or
// NewArrayWithSeeds gives each cell distinct (init_state, init_seq).
func NewArray(shape []int) *Array {
	cells := make([]*Generator, arraySize(shape))
	for i := range cells {
		cells[i] = NewGenerator()
	}
	return &Array{shape: append([]int(nil), shape...), cells: cells}
}

// NewArrayWithSeeds returns an Array whose cells are seeded from the given
// per-cell initState/initSeq, in row-major order -- the array-construction
// form spec.md section 6 names (`new_array_generator(init_state: u64[...],
// init_seq: u64[...])`). Both slices must have exactly arraySize(shape)
// entries.
func NewArrayWithSeeds(shape []int, initStates, initSeqs []uint64) (*Array, error) {
	size := arraySize(shape)
	if len(initStates) != size || len(initSeqs) != size {
		return nil, fmt.Errorf("%w: expected %d init_state and init_seq entries, got %d and %d",
			ErrInvalidParameter, size, len(initStates), len(initSeqs))
	}
	cells := make([]*Generator, size)
	for i := range cells {
		cells[i] = NewSeededGenerator(initStates[i], initSeqs[i])
	}
	return &Array{shape: append([]int(nil), shape...), cells: cells}, nil
}

func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }
func (a *Array) Size() int    { return len(a.cells) }

// At returns the Generator at the given per-axis index.
func (a *Array) At(idx ...int) (*Generator, error) {
	linear, err := linearIndex(a.shape, idx)
	if err != nil {
		return nil, err
	}
	return a.cells[linear], nil
}

// Cell returns the Generator at a raw row-major linear index.
func (a *Array) Cell(linear int) *Generator { return a.cells[linear] }

func (a *Array) State() []uint64 {
	out := make([]uint64, len(a.cells))
	for i, g := range a.cells {
		out[i] = g.State()
	}
	return out
}

func (a *Array) InitState() []uint64 {
	out := make([]uint64, len(a.cells))
	for i, g := range a.cells {
		out[i] = g.InitState()
	}
	return out
}

func (a *Array) InitSeq() []uint64 {
	out := make([]uint64, len(a.cells))
	for i, g := range a.cells {
		out[i] = g.InitSeq()
	}
	return out
}

// Restore sets every cell's raw state word from states, which must have
// exactly Size() entries.
func (a *Array) Restore(states []uint64) error {
	if len(states) != len(a.cells) {
		return fmt.Errorf("%w: expected %d states, got %d", ErrInvalidParameter, len(a.cells), len(states))
	}
	for i, s := range states {
		a.cells[i].Restore(s)
	}
	return nil
}

// RestoreCell restores a single cell by its linear index, leaving every
// other cell untouched.
func (a *Array) RestoreCell(linear int, state uint64) { a.cells[linear].Restore(state) }

// Advance moves every cell forward (or backward) by the same delta.
func (a *Array) Advance(delta int64) {
	for _, g := range a.cells {
		g.Advance(delta)
	}
}

// Distance returns the per-cell signed distance to other, which must have
// the same number of cells (shapes need not match, only cell count).
func (a *Array) Distance(other *Array) ([]int64, error) {
	if len(other.cells) != len(a.cells) {
		return nil, fmt.Errorf("%w: array cell count mismatch (%d vs %d)", ErrInvalidParameter, len(a.cells), len(other.cells))
	}
	out := make([]int64, len(a.cells))
	for i := range a.cells {
		out[i] = a.cells[i].Distance(other.cells[i])
	}
	return out, nil
}

// Random fills a flat (Size() x n) buffer, one contiguous row of n
// Uniform(0,1) draws per cell, using the default parameters.
func (a *Array) Random(n int) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.Random(out[i*n : (i+1)*n]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Array) RandomWith(n int, p UniformParams) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.RandomWith(out[i*n:(i+1)*n], p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Array) NormalWith(n int, p NormalParams) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.NormalWith(out[i*n:(i+1)*n], p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Array) ExponentialWith(n int, p ExponentialParams) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.ExponentialWith(out[i*n:(i+1)*n], p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Array) WeibullWith(n int, p WeibullParams) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.WeibullWith(out[i*n:(i+1)*n], p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Array) Gamma(n int, p GammaParams) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.Gamma(out[i*n:(i+1)*n], p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Array) Pareto(n int, p ParetoParams) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.Pareto(out[i*n:(i+1)*n], p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Array) Power(n int, p PowerParams) ([]float64, error) {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		if err := g.Power(out[i*n:(i+1)*n], p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delta fills a flat (Size() x n) buffer with the constant mu, without
// advancing any cell.
func (a *Array) Delta(n int, mu float64) []float64 {
	out := make([]float64, len(a.cells)*n)
	for i, g := range a.cells {
		g.Delta(out[i*n:(i+1)*n], mu)
	}
	return out
}

// Decide draws one fresh uniform per cell and reports whether it fell at
// or below the matching per-cell probability in p, which must have Size()
// entries.
func (a *Array) Decide(p []float64) ([]bool, error) {
	if len(p) != len(a.cells) {
		return nil, fmt.Errorf("%w: expected %d probabilities, got %d", ErrInvalidParameter, len(a.cells), len(p))
	}
	out := make([]bool, len(a.cells))
	single := make([]bool, 1)
	for i, g := range a.cells {
		g.Decide(p[i:i+1], single)
		out[i] = single[0]
	}
	return out, nil
}
