package translator

// translateFunction translates every block named for address in the
// catalog into a fresh Function, detects tail jumps across its blocks, and
// finalizes it. The caller must hold t.mu.
func (t *Translator) translateFunction(address uint64, blocks []BlockDescriptor) (*Function, error) {
	function := newFunction(address)
	t.functions[address] = function
	t.functionOrder = append(t.functionOrder, address)

	for _, desc := range blocks {
		if err := t.processBlock(function, desc); err != nil {
			delete(t.functions, address)
			t.removeFunctionOrder(address)
			return nil, err
		}
	}

	detectTailJumps(function)
	function.finalized = true
	return function, nil
}

// removeFunctionOrder drops address from the insertion-order index, used
// to undo translateFunction's bookkeeping when a translation attempt
// fails partway through.
func (t *Translator) removeFunctionOrder(address uint64) {
	for i, a := range t.functionOrder {
		if a == address {
			t.functionOrder = append(t.functionOrder[:i], t.functionOrder[i+1:]...)
			return
		}
	}
}

// maybeTranslateFunction returns the already-translated Function at
// address, translating it from the catalog first if necessary. It returns
// nil, nil if address is absent from the catalog. The caller must hold
// t.mu.
func (t *Translator) maybeTranslateFunction(address uint64) (*Function, error) {
	if function, ok := t.functions[address]; ok {
		return function, nil
	}

	blocks, ok := t.catalog.Functions()[address]
	if !ok {
		return nil, nil
	}

	return t.translateFunction(address, blocks)
}

// ParseKnownFunctions eagerly translates every function named in the
// catalog. Exposed as a public method rather than a constructor flag (see
// New), so callers can choose eager or on-demand translation.
func (t *Translator) ParseKnownFunctions() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for address, blocks := range t.catalog.Functions() {
		if _, ok := t.functions[address]; ok {
			continue
		}
		if _, err := t.translateFunction(address, blocks); err != nil {
			return err
		}
	}
	return nil
}
