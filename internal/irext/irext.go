// Package irext models the type vocabulary of the external, block-oriented
// IR lifter the translator drives: IMark/Exit statements, a constant
// "next" expression, and a small set of jump-kind hints.
//
// The lifter returns IR whose backing storage is only valid for the
// duration of the lift call. Callers of this package take an owning copy
// (Clone) before storing or mutating anything.
package irext

// JumpKind hints at the semantic shape of a super-block's terminator.
type JumpKind int

const (
	// Boring is a generic jump/fallthrough with no special semantics.
	Boring JumpKind = iota
	// Call marks a call instruction.
	Call
	// Return marks a return instruction.
	Return
	// NoDecode is a synthetic marker the translator uses to flag a block
	// it truncated itself; it is never produced by a real lifter.
	NoDecode
)

func (k JumpKind) String() string {
	switch k {
	case Boring:
		return "Boring"
	case Call:
		return "Call"
	case Return:
		return "Return"
	case NoDecode:
		return "NoDecode"
	default:
		return "Unknown"
	}
}

// StmtTag identifies the concrete shape of a Stmt.
type StmtTag int

const (
	// StmtOther is any statement shape this package does not inspect; its
	// payload is opaque and preserved verbatim.
	StmtOther StmtTag = iota
	// StmtIMark carries the address and byte length of one machine
	// instruction.
	StmtIMark
	// StmtExit is a conditional branch to a constant destination.
	StmtExit
)

// Stmt is one statement in a super-block. Only StmtIMark and StmtExit are
// inspected by the translator; all other shapes are carried as StmtOther
// with an opaque Payload so downstream consumers that understand more of
// the lifter's IR can still see them.
type Stmt struct {
	Tag StmtTag

	// Valid when Tag == StmtIMark.
	IMarkAddr uint64
	IMarkLen  int

	// Valid when Tag == StmtExit.
	ExitDst uint64

	// Payload carries any statement shape this package does not model,
	// preserved opaquely across Clone/Truncate.
	Payload any
}

// IMark returns an instruction-mark statement.
func IMark(addr uint64, length int) Stmt {
	return Stmt{Tag: StmtIMark, IMarkAddr: addr, IMarkLen: length}
}

// Exit returns a conditional-exit statement with a constant destination.
func Exit(dst uint64) Stmt {
	return Stmt{Tag: StmtExit, ExitDst: dst}
}

// ExprTag identifies the concrete shape of a super-block's Next expression.
type ExprTag int

const (
	// ExprOther is any next-expression shape other than a constant.
	ExprOther ExprTag = iota
	// ExprConst is a 64-bit constant target.
	ExprConst
)

// Expr is a super-block's terminal "next" expression.
type Expr struct {
	Tag   ExprTag
	Const uint64
}

// ConstExpr returns a constant next-expression carrying val.
func ConstExpr(val uint64) Expr {
	return Expr{Tag: ExprConst, Const: val}
}

// SuperBlock is the lifter's unit of translation: an ordered statement
// sequence plus a terminal expression and a jump-kind hint.
//
// A SuperBlock returned by a Lifter is transient; callers must call Clone
// before storing it anywhere that outlives the lift call.
type SuperBlock struct {
	Stmts []Stmt
	Next  Expr
	Jump  JumpKind
}

// Clone returns an independent, heap-owned copy of sb with its own
// statement slice. This is the mandatory step before any further mutation
// or storage, since the lifter is free to reuse sb's backing arrays on the
// next call. A statement's opaque Payload value is copied as-is, not
// deep-copied.
func (sb *SuperBlock) Clone() *SuperBlock {
	out := &SuperBlock{
		Next: sb.Next,
		Jump: sb.Jump,
	}
	out.Stmts = make([]Stmt, len(sb.Stmts))
	copy(out.Stmts, sb.Stmts)
	return out
}

// Truncate drops every statement from index n onward. Statements are not
// freed individually — they live in the owning SuperBlock's slice, which
// the garbage collector retires as a whole once nothing references it.
func (sb *SuperBlock) Truncate(n int) {
	sb.Stmts = sb.Stmts[:n]
}

// CountIMarks returns the number of StmtIMark statements in sb.
func (sb *SuperBlock) CountIMarks() int {
	n := 0
	for _, s := range sb.Stmts {
		if s.Tag == StmtIMark {
			n++
		}
	}
	return n
}

// SetNextConst overwrites sb.Next with a constant expression carrying val,
// in place, allocating a new Expr only conceptually — Expr is a value type
// here so "allocate a fresh Constant object" from the original design note
// collapses to a plain field assignment in Go.
func (sb *SuperBlock) SetNextConst(val uint64) {
	sb.Next = ConstExpr(val)
}
