// Package lifter provides concrete IR Lifter implementations satisfying
// translator.Lifter: one for ARM64, one for x86/x86-64. Both decode
// instruction-by-instruction (x86 through golang.org/x/arch/x86/x86asm,
// ARM64 by matching raw encoding bit masks) and build an
// irext.SuperBlock statement-by-statement, stopping at the earlier of
// maxInsns instructions or a terminator instruction — mirroring what a
// VEX-style lifter does when asked to "translate at most N instructions
// starting at this address."
package lifter

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"vexlift/internal/irext"
)

// ARM64 decodes AArch64 machine code one 32-bit instruction at a time,
// classifying branches directly from their raw encoding bit masks rather
// than through a full instruction decoder.
type ARM64 struct{}

// Translate implements translator.Lifter.
func (ARM64) Translate(code []byte, addr uint64, maxInsns int) (*irext.SuperBlock, uint64, error) {
	sb := &irext.SuperBlock{Jump: irext.Boring}

	pc := addr
	insns := 0
	for insns < maxInsns {
		off := int(pc - addr)
		if off+4 > len(code) {
			return nil, 0, errors.Errorf("arm64 lifter: short read at 0x%x", pc)
		}
		raw := binary.LittleEndian.Uint32(code[off : off+4])

		sb.Stmts = append(sb.Stmts, irext.IMark(pc, 4))
		insns++

		if br := decodeARM64Branch(raw, pc); br != nil {
			applyARM64Branch(sb, br, pc+4)
			return sb, pc + 4, nil
		}
		if isARM64Call(raw) {
			sb.Jump = irext.Call
			sb.Next = irext.ConstExpr(armCallTarget(raw, pc))
			return sb, pc + 4, nil
		}

		pc += 4
	}

	sb.Next = irext.ConstExpr(pc)
	return sb, pc, nil
}

// arm64Branch describes one decoded ARM64 branch instruction.
type arm64Branch struct {
	target uint64
	isRet  bool
	isCond bool
}

// decodeARM64Branch classifies raw as B, B.cond, CBZ, CBNZ, TBZ, TBNZ, or
// RET, computing an absolute target where applicable. Returns nil for any
// other instruction.
func decodeARM64Branch(raw uint32, pc uint64) *arm64Branch {
	// RET Xn: 1101011001011111000000 Rn 00000
	if raw&0xFFFFFC1F == 0xD65F0000 {
		return &arm64Branch{isRet: true}
	}
	// B: 000101 imm26
	if raw&0xFC000000 == 0x14000000 {
		return &arm64Branch{target: branchTarget(pc, raw&0x03FFFFFF, 26)}
	}
	// B.cond: 01010100 imm19 0 cond
	if raw&0xFF000010 == 0x54000000 {
		return &arm64Branch{target: branchTarget(pc, (raw>>5)&0x7FFFF, 19), isCond: true}
	}
	// CBZ/CBNZ: 0 sf 11010[01] imm19 Rt
	if raw&0x7E000000 == 0x34000000 {
		return &arm64Branch{target: branchTarget(pc, (raw>>5)&0x7FFFF, 19), isCond: true}
	}
	// TBZ/TBNZ: 0 b5 1101 1[01] b40 imm14 Rt
	if raw&0x7E000000 == 0x36000000 {
		return &arm64Branch{target: branchTarget(pc, (raw>>5)&0x3FFF, 14), isCond: true}
	}
	return nil
}

func branchTarget(pc uint64, imm uint32, bits int) uint64 {
	offset := signExtend(imm, bits) * 4
	return uint64(int64(pc) + int64(offset))
}

// signExtend sign-extends val, read as a bits-wide two's-complement field.
func signExtend(val uint32, bits int) int32 {
	sign := uint32(1) << (bits - 1)
	mask := sign - 1
	if val&sign != 0 {
		return int32(val | ^mask)
	}
	return int32(val & mask)
}

// isARM64Call reports whether raw is BL or BLR, the only two ARM64
// call-type instructions.
func isARM64Call(raw uint32) bool {
	// BL: 100101 imm26
	if raw&0xFC000000 == 0x94000000 {
		return true
	}
	// BLR Xn: 1101011000111111000000 Rn 00000
	if raw&0xFFFFFC1F == 0xD63F0000 {
		return true
	}
	return false
}

func armCallTarget(raw uint32, pc uint64) uint64 {
	if raw&0xFC000000 == 0x94000000 {
		return branchTarget(pc, raw&0x03FFFFFF, 26)
	}
	// BLR's target is register-indirect; unresolvable from the raw
	// encoding alone.
	return 0
}

// applyARM64Branch finishes classifying sb for a decoded branch at the
// block's final instruction.
func applyARM64Branch(sb *irext.SuperBlock, br *arm64Branch, fallThrough uint64) {
	switch {
	case br.isRet:
		sb.Jump = irext.Return
	case br.isCond:
		sb.Jump = irext.Boring
		sb.Stmts = append(sb.Stmts, irext.Exit(br.target))
		sb.Next = irext.ConstExpr(fallThrough)
	default:
		sb.Jump = irext.Boring
		sb.Next = irext.ConstExpr(br.target)
	}
}
