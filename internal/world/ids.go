package world

import "strconv"

// IDAllocator hands out unique entity identifiers. Each session owns
// its allocators explicitly; there is no process-wide counter.
type IDAllocator struct {
	prefix string
	next   uint64
}

func NewIDAllocator(prefix string) *IDAllocator {
	return &IDAllocator{prefix: prefix}
}

// Next returns a fresh identifier. Identifiers are dense and ordered,
// which keeps simulation iteration order reproducible under a seed.
func (a *IDAllocator) Next() string {
	id := a.prefix + "-" + strconv.FormatUint(a.next, 10)
	a.next++
	return id
}
