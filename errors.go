package pcg

import "errors"

// Error taxonomy for the package, per spec section 7. All operations
// return errors synchronously as ordinary Go error values -- there is no
// global error state. Raw linear indexes passed to Cell and RestoreCell are
// not range-checked.
var (
	// ErrInvalidParameter reports a parameter combination that can never
	// produce a valid draw: negative scale or rate, negative shape, or
	// high <= low for Randint, among others.
	ErrInvalidParameter = errors.New("pcg: invalid distribution parameter")

	// ErrAlignmentUnreachable reports that CumsumChunk.Prev (or an Align
	// that resolves to a backward shift) would need to rewind past a
	// position the chunk has no recorded anchor for.
	ErrAlignmentUnreachable = errors.New("pcg: alignment target unreachable from recorded anchor")

	// ErrInvalidEncoding reports a MarshalBinary payload that is the
	// wrong length or carries the wrong tag.
	ErrInvalidEncoding = errors.New("pcg: invalid binary encoding")

	// ErrEmptyBuffer reports an operation that requires a non-empty
	// output buffer.
	ErrEmptyBuffer = errors.New("pcg: output buffer must be non-empty")
)
