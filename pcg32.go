package pcg

import (
	"encoding/binary"
	"math/bits"
)

// PCG32 constants, as specified for the permuted congruential family.
// ref: https://www.pcg-random.org/
const (
	multiplier      = 6364136223846793005
	defaultState    = 0x853c49e6748fea9b
	defaultSequence = 0xda3e39cb94b95bdb
)

// PCG32 is a 64-bit-state, 32-bit-output permuted congruential generator.
// Its "position" -- the number of 32-bit words it has produced since
// construction -- is an element of Z/2^64, recoverable from state via
// Distance. A zero PCG32 is unseeded: its increment is 0, so its state
// never leaves 0. Use NewPCG32 or Seed to obtain a usable stream.
type PCG32 struct {
	state, increment   uint64
	initState, initSeq uint64
}

// NewPCG32 returns a generator seeded with the reference default state and
// sequence constants, matching the historic reference vector checked in
// pcg32_test.go.
func NewPCG32() *PCG32 {
	return new(PCG32).Seed(defaultState, defaultSequence)
}

// Seed (re)initializes the generator from initState and initSeq. initSeq
// need not be odd: the increment is (initSeq << 1) | 1, which is odd for
// every initSeq (the OutOfOrderSeed case -- there is nothing to report).
// Distinct initSeq values below 2^63 therefore select distinct streams.
func (p *PCG32) Seed(initState, initSeq uint64) *PCG32 {
	p.initState = initState
	p.initSeq = initSeq
	p.increment = (initSeq << 1) | 1
	p.state = 0
	p.step()
	p.state += initState
	p.step()
	return p
}

// step advances the LCG by exactly one word, in place.
func (p *PCG32) step() {
	p.state = p.state*multiplier + p.increment
}

// Uint32 produces the next pseudorandom 32-bit word and advances the
// generator's position by one.
func (p *PCG32) Uint32() uint32 {
	old := p.state
	p.step()

	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Float64 returns a pseudorandom value in [0, 1), advancing the position
// by one. It uses the 32-bit canonical form u*2^-32 rather than stitching
// two words into a 53-bit mantissa, so that it matches the historic
// reference vectors bit-for-bit within tolerance.
func (p *PCG32) Float64() float64 {
	return float64(p.Uint32()) * (1.0 / 4294967296.0)
}

// Uintn32 returns a value in [0, bound) using rejection sampling for exact
// uniformity. It is a low-level convenience on the bit engine itself and is
// not used by Distributions.Randint, which maps by multiplication instead
// (no rejection there, only bit-engine-granularity uniformity is required).
func (p *PCG32) Uintn32(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	threshold := -bound % bound
	for {
		r := p.Uint32()
		if r >= threshold {
			return r % bound
		}
	}
}

// advanceLCG computes the state reached after delta steps of the LCG
// state' = state*mul + add, in O(log delta) via the standard doubling
// construction: accumulate (mul, add) pairs under the group law
// (a,b)*(c,d) = (a*c, c*b+d) over the bits of delta.
func advanceLCG(state, delta, mul, add uint64) uint64 {
	accMul := uint64(1)
	accAdd := uint64(0)

	for delta > 0 {
		if delta&1 != 0 {
			accMul *= mul
			accAdd = accAdd*mul + add
		}
		add = (mul + 1) * add
		mul *= mul
		delta >>= 1
	}
	return accMul*state + accAdd
}

// Advance moves the generator forward (delta > 0) or backward (delta < 0)
// by delta positions in O(log|delta|), interpreting a negative delta as
// its two's-complement residue mod 2^64.
func (p *PCG32) Advance(delta int64) *PCG32 {
	p.state = advanceLCG(p.state, uint64(delta), multiplier, p.increment)
	return p
}

// Distance returns the signed number of steps that, applied to other,
// reaches p's state: other.Advance(p.Distance(other)).State() == p.State().
// Both generators must share the same stream (increment); behaviour is
// otherwise unspecified. Uses the standard PCG jump-distance binary search:
// walk a candidate state towards the target one bit at a time, recording
// which power-of-two jumps were needed.
func (p *PCG32) Distance(other *PCG32) int64 {
	cur := other.state
	target := p.state
	mult := uint64(multiplier)
	plus := p.increment

	var distance uint64
	bit := uint64(1)
	for cur != target {
		if cur&bit != target&bit {
			cur = cur*mult + plus
			distance |= bit
		}
		bit <<= 1
		plus = (mult + 1) * plus
		mult *= mult
	}
	return int64(distance)
}

// State returns the generator's raw 64-bit state word.
func (p *PCG32) State() uint64 { return p.state }

// Restore sets the generator's raw state word directly, leaving its stream
// (increment, initState, initSeq) untouched.
func (p *PCG32) Restore(state uint64) *PCG32 {
	p.state = state
	return p
}

// InitState returns the constructor-supplied initial state.
func (p *PCG32) InitState() uint64 { return p.initState }

// InitSeq returns the constructor-supplied initial sequence.
func (p *PCG32) InitSeq() uint64 { return p.initSeq }

// Clone returns an independent copy sharing the same stream and state.
func (p *PCG32) Clone() *PCG32 {
	c := *p
	return &c
}

// Read fills buf with pseudorandom bytes, advancing the generator by
// ceil(len(buf)/4) positions. It always returns len(buf), nil.
func (p *PCG32) Read(buf []byte) (int, error) {
	n := len(buf)
	i := 0
	for ; i <= n-4; i += 4 {
		binary.LittleEndian.PutUint32(buf[i:], p.Uint32())
	}
	if i < n {
		val := p.Uint32()
		remaining := buf[i:]
		for k := range remaining {
			remaining[k] = byte(val >> (8 * k))
		}
	}
	return n, nil
}

const pcg32Tag = "pcg3"

// MarshalBinary serializes (initState, initSeq, state) -- the three words
// that fully reconstruct a PCG32 -- per the persisted-state layout in
// spec.md section 6.
func (p *PCG32) MarshalBinary() ([]byte, error) {
	b := make([]byte, 4+24)
	copy(b, pcg32Tag)
	binary.BigEndian.PutUint64(b[4:], p.initState)
	binary.BigEndian.PutUint64(b[12:], p.initSeq)
	binary.BigEndian.PutUint64(b[20:], p.state)
	return b, nil
}

// UnmarshalBinary restores a generator from the format MarshalBinary writes.
func (p *PCG32) UnmarshalBinary(b []byte) error {
	if len(b) != 4+24 || string(b[:4]) != pcg32Tag {
		return ErrInvalidEncoding
	}
	p.initState = binary.BigEndian.Uint64(b[4:])
	p.initSeq = binary.BigEndian.Uint64(b[12:])
	p.state = binary.BigEndian.Uint64(b[20:])
	p.increment = (p.initSeq << 1) | 1
	return nil
}
