package translator

import "vexlift/internal/irext"

// Lifter is the external, block-oriented IR lifter the Translator drives.
// Implementations are expected to be stateless (or internally
// synchronized); the Translator never calls a Lifter concurrently with
// itself, but imposes no constraint beyond that.
type Lifter interface {
	// Translate lifts up to maxInsns instructions starting at addr,
	// returning the resulting super-block and the address at which
	// translation actually stopped (realEnd), which may fall short of
	// addr+len(code) if the lifter split the block early (e.g. at a call).
	Translate(code []byte, addr uint64, maxInsns int) (sb *irext.SuperBlock, realEnd uint64, err error)
}

// MemoryImage is the external collaborator providing byte access into the
// executable by virtual address.
type MemoryImage interface {
	CodeAt(va uint64, n int) ([]byte, error)
}

// Catalog is the external function-boundary catalog provider.
type Catalog interface {
	Functions() map[uint64][]BlockDescriptor
	NonReturning() map[uint64]struct{}
}
