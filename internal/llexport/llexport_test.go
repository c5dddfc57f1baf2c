package llexport

import (
	"testing"

	"vexlift/internal/lifter"
	"vexlift/internal/translator"
)

type oneFuncCatalog struct {
	functions map[uint64][]translator.BlockDescriptor
}

func (c *oneFuncCatalog) Functions() map[uint64][]translator.BlockDescriptor { return c.functions }
func (c *oneFuncCatalog) NonReturning() map[uint64]struct{}                  { return nil }

type retMemory struct{}

func (retMemory) CodeAt(va uint64, n int) ([]byte, error) {
	return []byte{0xc3, 0x90, 0x90, 0x90}, nil
}

func TestModule_OneFunctionOneBlock(t *testing.T) {
	catalog := &oneFuncCatalog{functions: map[uint64][]translator.BlockDescriptor{
		0x1000: {{Start: 0x1000, End: 0x1001, InstructionCount: 1}},
	}}
	tr := translator.New(lifter.X86{}, retMemory{}, catalog)
	fn, err := tr.GetFunction(0x1000)
	if err != nil {
		t.Fatalf("GetFunction: %v", err)
	}

	m := Module([]*translator.Function{fn})
	if len(m.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(m.Funcs))
	}
	if len(m.Funcs[0].Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(m.Funcs[0].Blocks))
	}
	block := m.Funcs[0].Blocks[0]
	if block == nil {
		t.Fatal("expected a non-nil basic block")
	}
	if block.Term == nil {
		t.Error("expected a non-nil terminator; formatting the module would panic otherwise")
	}

	// m.String() is llvm-dump's only job; it must not panic on a freshly
	// built module.
	if s := m.String(); s == "" {
		t.Error("expected a non-empty module dump")
	}
}
