package lifter

import (
	"testing"

	"vexlift/internal/irext"
)

func TestX86_Translate_Return(t *testing.T) {
	code := []byte{0xc3} // ret
	sb, realEnd, err := X86{}.Translate(code, 0x1000, 1)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if sb.Jump != irext.Return {
		t.Errorf("Jump = %v, want Return", sb.Jump)
	}
	if realEnd != 0x1001 {
		t.Errorf("realEnd = 0x%x, want 0x1001", realEnd)
	}
}

func TestX86_Translate_UnconditionalJump(t *testing.T) {
	// jmp rel8 +0x05: eb 05
	code := []byte{0xeb, 0x05}
	sb, realEnd, err := X86{}.Translate(code, 0x1000, 1)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if realEnd != 0x1002 {
		t.Fatalf("realEnd = 0x%x, want 0x1002", realEnd)
	}
	if sb.Next.Tag != irext.ExprConst || sb.Next.Const != 0x1007 {
		t.Errorf("Next = %+v, want const 0x1007", sb.Next)
	}
}

func TestX86_Translate_CallRelative(t *testing.T) {
	// call rel32 +0x00000000 -> target == next instruction address
	code := []byte{0xe8, 0x00, 0x00, 0x00, 0x00}
	sb, realEnd, err := X86{}.Translate(code, 0x1000, 1)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if sb.Jump != irext.Call {
		t.Errorf("Jump = %v, want Call", sb.Jump)
	}
	if sb.Next.Const != realEnd {
		t.Errorf("Next.Const = 0x%x, want 0x%x", sb.Next.Const, realEnd)
	}
}

func TestX86_Translate_ConditionalJumpEmitsExit(t *testing.T) {
	// je rel8 +0x02: 74 02
	code := []byte{0x74, 0x02}
	sb, _, err := X86{}.Translate(code, 0x1000, 1)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	found := false
	for _, s := range sb.Stmts {
		if s.Tag == irext.StmtExit && s.ExitDst == 0x1004 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Exit statement to 0x1004, got %+v", sb.Stmts)
	}
}

func TestX86_Translate_StopsAtMaxInsns(t *testing.T) {
	code := []byte{0x90, 0x90, 0x90} // nop; nop; nop
	sb, realEnd, err := X86{}.Translate(code, 0x2000, 2)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(sb.Stmts) != 2 {
		t.Errorf("Stmts = %d, want 2", len(sb.Stmts))
	}
	if realEnd != 0x2002 {
		t.Errorf("realEnd = 0x%x, want 0x2002", realEnd)
	}
}
