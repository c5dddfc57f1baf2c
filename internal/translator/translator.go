package translator

import (
	"sync"

	"vexlift/internal/irext"
)

// Translator drives a Lifter across the blocks named in a Catalog,
// producing translated Functions with classified Terminators. All mutation
// and lookup is synchronized through a single mutex, since the underlying
// Lifter is not reentrant.
type Translator struct {
	mu sync.Mutex

	lifter  Lifter
	memory  MemoryImage
	catalog Catalog

	functions     map[uint64]*Function
	functionOrder []uint64
	blocks        map[uint64]*irext.SuperBlock
	seenBlocks    map[uint64]struct{}
	isFinalized   bool
}

// New constructs a Translator over lifter, memory, and catalog. Parsing
// every known function eagerly is a separate, explicit call
// (ParseKnownFunctions) rather than a constructor flag, so callers choose
// eager or on-demand translation without a boolean parameter.
func New(lifter Lifter, memory MemoryImage, catalog Catalog) *Translator {
	return &Translator{
		lifter:     lifter,
		memory:     memory,
		catalog:    catalog,
		functions:  make(map[uint64]*Function),
		seenBlocks: make(map[uint64]struct{}),
	}
}
