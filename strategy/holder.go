package strategy

import (
	"sync/atomic"
	"time"
)

// Active is a table together with where it came from. It is never modified
// once stored in a Holder.
type Active struct {
	// Name is the profile name, or a label such as "uploaded".
	Name string
	// Path is the file the table was read from; empty for uploads.
	Path string
	// ModTime is the file's modification time when it was read.
	ModTime time.Time
	Table   *Table
}

// Holder publishes the active table to concurrent readers. Readers get either
// the previous or the new table in full.
type Holder struct {
	current atomic.Pointer[Active]
}

// NewHolder returns a holder publishing active.
func NewHolder(active *Active) *Holder {
	h := &Holder{}
	h.current.Store(active)
	return h
}

// Current returns the active entry. It may be nil for an empty holder.
func (h *Holder) Current() *Active {
	return h.current.Load()
}

// Table returns the active table, or nil.
func (h *Holder) Table() *Table {
	if a := h.current.Load(); a != nil {
		return a.Table
	}
	return nil
}

// Swap publishes next and returns the entry it replaced.
func (h *Holder) Swap(next *Active) *Active {
	return h.current.Swap(next)
}

// CompareAndSwap publishes next only if old is still active.
func (h *Holder) CompareAndSwap(old, next *Active) bool {
	return h.current.CompareAndSwap(old, next)
}
