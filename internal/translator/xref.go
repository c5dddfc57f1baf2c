package translator

import "fmt"

// AddFunctionXref appends xrefAddr to the cross-reference set recorded
// against the function at functionAddr. Append-only: existing xrefs are
// never removed or rewritten.
func (t *Translator) AddFunctionXref(functionAddr, xrefAddr uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	function, ok := t.functions[functionAddr]
	if !ok {
		return fmt.Errorf("%w: 0x%x", ErrNotFound, functionAddr)
	}
	function.xrefs[xrefAddr] = struct{}{}
	return nil
}

// AddFunctionVfuncXref appends xrefAddr to the virtual-table-slot
// cross-reference set recorded against the function at functionAddr.
func (t *Translator) AddFunctionVfuncXref(functionAddr, xrefAddr uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	function, ok := t.functions[functionAddr]
	if !ok {
		return fmt.Errorf("%w: 0x%x", ErrNotFound, functionAddr)
	}
	function.vfuncXrefs[xrefAddr] = struct{}{}
	return nil
}
