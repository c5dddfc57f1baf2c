package translator

import (
	"fmt"
	"sort"
)

// GetFunction returns the Function at address, translating it on demand if
// it is not already known. It returns ErrUnknownEntry wrapped with address
// if address is absent from the catalog, or whatever error lifting itself
// produced otherwise.
func (t *Translator) GetFunction(address uint64) (*Function, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	function, err := t.maybeTranslateFunction(address)
	if err != nil {
		return nil, err
	}
	if function == nil {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownEntry, address)
	}
	return function, nil
}

// CGetFunction returns the Function at address only if it has already
// been translated; it never triggers translation.
func (t *Translator) CGetFunction(address uint64) (*Function, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	function, ok := t.functions[address]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x", ErrNotFound, address)
	}
	return function, nil
}

// MaybeGetFunction returns the Function at address, translating it on
// demand, or nil if address is not present in the catalog. Unlike
// GetFunction, absence is not an error.
func (t *Translator) MaybeGetFunction(address uint64) (*Function, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.maybeTranslateFunction(address)
}

// GetContainingFunction linearly scans every already-translated function
// for one whose blocks cover address. It does not trigger translation of
// functions not yet known.
func (t *Translator) GetContainingFunction(address uint64) (*Function, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, function := range t.functions {
		if function.ContainsAddress(address) {
			return function, nil
		}
	}
	return nil, fmt.Errorf("%w: containing 0x%x", ErrNotFound, address)
}

// Finalize marks the Translator as finalized: GetFunctionsMutable will
// refuse further access, though xref annotation remains available via
// AddFunctionXref/AddFunctionVfuncXref.
func (t *Translator) Finalize() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.isFinalized = true
}

// IsFinalized reports whether Finalize has been called.
func (t *Translator) IsFinalized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isFinalized
}

// GetFunctionsMutable returns the translator's function registry for
// direct mutation, failing once the Translator has been finalized.
func (t *Translator) GetFunctionsMutable() (map[uint64]*Function, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isFinalized {
		return nil, ErrFinalized
	}
	return t.functions, nil
}

// OrderedFunctions returns every known function sorted by ascending entry
// address. The function registry is conceptually an ordered map keyed by
// entry address; since Go maps do not preserve any order, callers that
// need to iterate the registry deterministically must go through this
// method rather than ranging over GetFunctionsMutable's result directly.
func (t *Translator) OrderedFunctions() []*Function {
	t.mu.Lock()
	defer t.mu.Unlock()

	addrs := make([]uint64, len(t.functionOrder))
	copy(addrs, t.functionOrder)
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	out := make([]*Function, len(addrs))
	for i, a := range addrs {
		out[i] = t.functions[a]
	}
	return out
}
