package translator

// detectTailJumps marks every Jump-terminated block in function as a tail
// jump if its target does not point at another block belonging to the
// same function. Every other terminator type is left with IsTail false,
// since calls into non-returning functions are already handled by
// finalizeBlock and every other terminator has no tail-call reading.
func detectTailJumps(function *Function) {
	for _, block := range function.blocks {
		block.Term.IsTail = false

		if block.Term.Type != Jump {
			continue
		}
		target := block.Term.Target

		isTail := true
		for _, other := range function.blocks {
			if other.Address == target {
				isTail = false
				break
			}
		}
		block.Term.IsTail = isTail
	}
}
