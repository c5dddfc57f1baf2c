package lifter

import (
	"github.com/pkg/errors"
	"golang.org/x/arch/x86/x86asm"

	"vexlift/internal/irext"
)

// X86 decodes x86-64 machine code instruction-by-instruction via
// golang.org/x/arch/x86/x86asm, emitting the irext statement shapes
// (IMark/Exit/Next) the translator's classifier consumes.
type X86 struct{}

const x86Mode = 64

// Translate implements translator.Lifter.
func (X86) Translate(code []byte, addr uint64, maxInsns int) (*irext.SuperBlock, uint64, error) {
	sb := &irext.SuperBlock{Jump: irext.Boring}

	pc := addr
	insns := 0
	for insns < maxInsns {
		off := int(pc - addr)
		if off >= len(code) {
			return nil, 0, errors.Errorf("x86 lifter: short read at 0x%x", pc)
		}
		inst, err := x86asm.Decode(code[off:], x86Mode)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "x86 lifter: decode at 0x%x", pc)
		}

		sb.Stmts = append(sb.Stmts, irext.IMark(pc, inst.Len))
		insns++
		next := pc + uint64(inst.Len)

		switch x86TermKind(inst.Op) {
		case x86TermNone:
			pc = next
			continue

		case x86TermReturn:
			sb.Jump = irext.Return
			return sb, next, nil

		case x86TermCall:
			sb.Jump = irext.Call
			if target, ok := x86RelTarget(inst, next); ok {
				sb.Next = irext.ConstExpr(target)
			}
			return sb, next, nil

		case x86TermJump:
			sb.Jump = irext.Boring
			if target, ok := x86RelTarget(inst, next); ok {
				sb.Next = irext.ConstExpr(target)
			}
			return sb, next, nil

		case x86TermJcc:
			sb.Jump = irext.Boring
			if target, ok := x86RelTarget(inst, next); ok {
				sb.Stmts = append(sb.Stmts, irext.Exit(target))
			}
			sb.Next = irext.ConstExpr(next)
			return sb, next, nil
		}
	}

	sb.Next = irext.ConstExpr(pc)
	return sb, pc, nil
}

type x86Term int

const (
	x86TermNone x86Term = iota
	x86TermCall
	x86TermJump
	x86TermJcc
	x86TermReturn
)

func x86TermKind(op x86asm.Op) x86Term {
	switch op {
	case x86asm.CALL, x86asm.LCALL:
		return x86TermCall
	case x86asm.JMP, x86asm.LJMP:
		return x86TermJump
	case x86asm.RET, x86asm.LRET:
		return x86TermReturn
	case x86asm.LOOP, x86asm.LOOPE, x86asm.LOOPNE,
		x86asm.JA, x86asm.JAE, x86asm.JB, x86asm.JBE, x86asm.JCXZ, x86asm.JE,
		x86asm.JECXZ, x86asm.JG, x86asm.JGE, x86asm.JL, x86asm.JLE, x86asm.JNE,
		x86asm.JNO, x86asm.JNP, x86asm.JNS, x86asm.JO, x86asm.JP, x86asm.JRCXZ, x86asm.JS:
		return x86TermJcc
	default:
		return x86TermNone
	}
}

// x86RelTarget extracts a direct branch target from inst's first argument,
// returning ok=false for indirect call/jmp targets (register or memory
// operands), which the translator's classifier then treats as unresolved.
func x86RelTarget(inst x86asm.Inst, next uint64) (uint64, bool) {
	if len(inst.Args) == 0 || inst.Args[0] == nil {
		return 0, false
	}
	rel, ok := inst.Args[0].(x86asm.Rel)
	if !ok {
		return 0, false
	}
	return uint64(int64(next) + int64(rel)), true
}
