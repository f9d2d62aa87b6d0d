package epicycle

import (
	Mt "github.com/maroda/epicycle/types"
)

// OutlineBuffer collects the traced path one sample at a time.
// It is sized once and always reads back at full size,
// so the renderer gets the same number of vertices every frame.
type OutlineBuffer struct {
	inner  []Mt.Point
	Size   int // capacity, the number of samples in one cycle
	Cursor int // fill cursor, the count of real samples
}

// NewOutlineBuffer returns an empty buffer that will hold /size/ samples
func NewOutlineBuffer(size int) *OutlineBuffer {
	if size < 0 {
		size = 0
	}
	return &OutlineBuffer{
		inner: make([]Mt.Point, 0, size),
		Size:  size,
	}
}

// Push stores p at the cursor and moves the cursor forward.
// Callers check HasCapacity first, pushing into a full buffer panics.
func (ob *OutlineBuffer) Push(p Mt.Point) {
	if ob.Cursor >= ob.Size {
		panic("epicycle: push into a full OutlineBuffer")
	}

	// Slots behind len(inner) were written in an earlier cycle
	if ob.Cursor < len(ob.inner) {
		ob.inner[ob.Cursor] = p
	} else {
		ob.inner = append(ob.inner, p)
	}
	ob.Cursor++
}

// ReadPadded returns exactly Size points.
// Everything after the cursor is a copy of the last real sample,
// so the undrawn part of the outline collapses onto the pen.
// Before the first push the padding is the zero Point.
func (ob *OutlineBuffer) ReadPadded() []Mt.Point {
	out := make([]Mt.Point, ob.Size)
	copy(out, ob.inner[:ob.Cursor])

	var pad Mt.Point
	if ob.Cursor > 0 {
		pad = ob.inner[ob.Cursor-1]
	}
	for i := ob.Cursor; i < ob.Size; i++ {
		out[i] = pad
	}
	return out
}

// PercentFull is the cursor as a fraction of Size,
// which is also the cycle time of the next sample.
func (ob *OutlineBuffer) PercentFull() float64 {
	if ob.Size == 0 {
		return 0
	}
	return float64(ob.Cursor) / float64(ob.Size)
}

func (ob *OutlineBuffer) HasCapacity() bool {
	return ob.Cursor < ob.Size
}

// Reset rewinds the cursor for a new cycle.
// The old samples stay in place and are overwritten by later pushes.
func (ob *OutlineBuffer) Reset() {
	ob.Cursor = 0
}
