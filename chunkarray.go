package pcg

import "fmt"

// ChunkArray is Array's counterpart for CumsumChunk: a shape-preserving,
// row-major collection of independent chunks, each free to sit at its own
// position, bound to its own distribution, and aligned to its own target
// without disturbing its neighbours.
type ChunkArray struct {
	shape []int
	cells []*CumsumChunk
}

// NewChunkArray returns a ChunkArray of the given shape, every cell a
// freshly constructed chunk of size n sharing the documented default
// stream -- use NewChunkArrayWithSeeds for independent streams.
func NewChunkArray(shape []int, n int, policy AlignPolicy) *ChunkArray {
	cells := make([]*CumsumChunk, arraySize(shape))
	for i := range cells {
		cells[i] = NewCumsumChunk(n, policy)
	}
	return &ChunkArray{shape: append([]int(nil), shape...), cells: cells}
}

// NewChunkArrayWithSeeds is NewChunkArray, but each cell's owned Generator
// is seeded from the matching entry of initStates/initSeqs instead of
// sharing the default stream -- the chunked counterpart of
// NewArrayWithSeeds. Both slices must have exactly arraySize(shape)
// entries.
func NewChunkArrayWithSeeds(shape []int, n int, policy AlignPolicy, initStates, initSeqs []uint64) (*ChunkArray, error) {
	size := arraySize(shape)
	if len(initStates) != size || len(initSeqs) != size {
		return nil, fmt.Errorf("%w: expected %d init_state and init_seq entries, got %d and %d",
			ErrInvalidParameter, size, len(initStates), len(initSeqs))
	}
	cells := make([]*CumsumChunk, size)
	for i := range cells {
		cells[i] = NewCumsumChunkFromGenerator(NewSeededGenerator(initStates[i], initSeqs[i]), n, policy)
	}
	return &ChunkArray{shape: append([]int(nil), shape...), cells: cells}, nil
}

func (a *ChunkArray) Shape() []int { return append([]int(nil), a.shape...) }
func (a *ChunkArray) Size() int    { return len(a.cells) }

// At returns the chunk at the given per-axis index.
func (a *ChunkArray) At(idx ...int) (*CumsumChunk, error) {
	linear, err := linearIndex(a.shape, idx)
	if err != nil {
		return nil, err
	}
	return a.cells[linear], nil
}

// Cell returns the chunk at a raw row-major linear index.
func (a *ChunkArray) Cell(linear int) *CumsumChunk { return a.cells[linear] }

// SetWeibull binds the same weibull distribution and offset to every cell.
func (a *ChunkArray) SetWeibull(p WeibullParams, offset float64) {
	for _, c := range a.cells {
		c.SetWeibull(p, offset)
	}
}

func (a *ChunkArray) SetNormal(p NormalParams, offset float64) {
	for _, c := range a.cells {
		c.SetNormal(p, offset)
	}
}

func (a *ChunkArray) SetExponential(p ExponentialParams, offset float64) {
	for _, c := range a.cells {
		c.SetExponential(p, offset)
	}
}

func (a *ChunkArray) SetGamma(p GammaParams, offset float64) {
	for _, c := range a.cells {
		c.SetGamma(p, offset)
	}
}

func (a *ChunkArray) SetPareto(p ParetoParams, offset float64) {
	for _, c := range a.cells {
		c.SetPareto(p, offset)
	}
}

func (a *ChunkArray) SetPower(p PowerParams, offset float64) {
	for _, c := range a.cells {
		c.SetPower(p, offset)
	}
}

func (a *ChunkArray) SetRandom(p UniformParams, offset float64) {
	for _, c := range a.cells {
		c.SetRandom(p, offset)
	}
}

// DrawChunk fills every cell's buffer independently.
func (a *ChunkArray) DrawChunk() error {
	for i, c := range a.cells {
		if err := c.DrawChunk(); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// Next shifts every cell's window forward by the same margin.
func (a *ChunkArray) Next(margin uint64) error {
	for i, c := range a.cells {
		if err := c.Next(margin); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// Prev shifts every cell's window backward by the same margin.
func (a *ChunkArray) Prev(margin uint64) error {
	for i, c := range a.cells {
		if err := c.Prev(margin); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// Align aligns every cell to its own target value; target must have
// Size() entries.
func (a *ChunkArray) Align(target []float64) error {
	if len(target) != len(a.cells) {
		return fmt.Errorf("%w: expected %d targets, got %d", ErrInvalidParameter, len(a.cells), len(target))
	}
	for i, c := range a.cells {
		if err := c.Align(target[i]); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// AlignAt aligns every cell to its own global index; globalIndex must have
// Size() entries.
func (a *ChunkArray) AlignAt(globalIndex []uint64) error {
	if len(globalIndex) != len(a.cells) {
		return fmt.Errorf("%w: expected %d indices, got %d", ErrInvalidParameter, len(a.cells), len(globalIndex))
	}
	for i, c := range a.cells {
		if err := c.AlignAt(globalIndex[i]); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// RestoreCell relocates a single cell to a previously recorded anchor,
// leaving every other cell untouched -- the array-facade counterpart of
// CumsumChunk.Restore.
func (a *ChunkArray) RestoreCell(linear int, state uint64, value float64, index uint64) {
	a.cells[linear].Restore(state, value, index)
}

// Data returns each cell's current buffer, one slice per cell in row-major
// order.
func (a *ChunkArray) Data() [][]float64 {
	out := make([][]float64, len(a.cells))
	for i, c := range a.cells {
		out[i] = c.Data()
	}
	return out
}

func (a *ChunkArray) Start() []uint64 {
	out := make([]uint64, len(a.cells))
	for i, c := range a.cells {
		out[i] = c.Start()
	}
	return out
}

func (a *ChunkArray) IndexAtAlign() []uint64 {
	out := make([]uint64, len(a.cells))
	for i, c := range a.cells {
		out[i] = c.IndexAtAlign()
	}
	return out
}
