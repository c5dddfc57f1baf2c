package render

import (
	"testing"

	"vexlift/internal/lifter"
	"vexlift/internal/translator"
)

type staticCatalog struct {
	functions    map[uint64][]translator.BlockDescriptor
	nonReturning map[uint64]struct{}
}

func (c *staticCatalog) Functions() map[uint64][]translator.BlockDescriptor { return c.functions }
func (c *staticCatalog) NonReturning() map[uint64]struct{}                  { return c.nonReturning }

type zeroMemory struct{}

func (zeroMemory) CodeAt(va uint64, n int) ([]byte, error) {
	return make([]byte, n), nil
}

// buildBranchingFunction assembles a small function with a conditional
// branch and two returns, using the real ARM64 lifter, for rendering tests.
func buildBranchingFunction(t *testing.T) *translator.Function {
	t.Helper()

	// B0 at 0x1000: CBZ X0, 0x1010 (taken -> B2, fallthrough -> B1)
	// B1 at 0x1004: RET
	// B2 at 0x1010: RET
	catalog := &staticCatalog{
		functions: map[uint64][]translator.BlockDescriptor{
			0x1000: {
				{Start: 0x1000, End: 0x1004, InstructionCount: 1},
				{Start: 0x1004, End: 0x1008, InstructionCount: 1},
				{Start: 0x1010, End: 0x1014, InstructionCount: 1},
			},
		},
		nonReturning: map[uint64]struct{}{},
	}

	code := make(map[uint64][]byte)
	// CBZ X0, +0x10: imm19 = 4
	cbz := uint32(0x34000000) | (4 << 5)
	code[0x1000] = le32(cbz)
	code[0x1004] = le32(0xD65F03C0) // ret
	code[0x1010] = le32(0xD65F03C0) // ret

	mem := &scriptedMemory{code: code}
	tr := translator.New(lifter.ARM64{}, mem, catalog)

	fn, err := tr.GetFunction(0x1000)
	if err != nil {
		t.Fatalf("GetFunction: %v", err)
	}
	return fn
}

type scriptedMemory struct {
	code map[uint64][]byte
}

func (m *scriptedMemory) CodeAt(va uint64, n int) ([]byte, error) {
	buf, ok := m.code[va]
	if !ok {
		return make([]byte, n), nil
	}
	out := make([]byte, n)
	copy(out, buf)
	return out, nil
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return b
}

func TestBuildFuncCFG_ConditionalBranchProducesTwoSuccessors(t *testing.T) {
	fn := buildBranchingFunction(t)
	lcfg := BuildFuncCFG(fn)

	if len(lcfg.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(lcfg.Blocks))
	}
	if len(lcfg.Blocks[0].Succs) != 2 {
		t.Fatalf("expected entry block to have 2 successors, got %d: %+v", len(lcfg.Blocks[0].Succs), lcfg.Blocks[0].Succs)
	}
}

func TestDOTCFG_NonEmpty(t *testing.T) {
	fn := buildBranchingFunction(t)
	dot := DOTCFG(fn, "test cfg")
	if dot == "" {
		t.Error("expected non-empty DOT output")
	}
}

func TestBuildCallGraph_ResolvedCallEdge(t *testing.T) {
	catalog := &staticCatalog{
		functions: map[uint64][]translator.BlockDescriptor{
			0x1000: {{Start: 0x1000, End: 0x1004, InstructionCount: 1}},
			0x2000: {{Start: 0x2000, End: 0x2004, InstructionCount: 1}},
		},
		nonReturning: map[uint64]struct{}{},
	}

	mem := &scriptedMemory{code: map[uint64][]byte{
		// BL +0x1000 at pc=0x1000 -> target 0x2000
		0x1000: le32(uint32(0x94000000) | 0x400),
		0x2000: le32(0xD65F03C0), // ret
	}}

	tr := translator.New(lifter.ARM64{}, mem, catalog)
	caller, err := tr.GetFunction(0x1000)
	if err != nil {
		t.Fatalf("GetFunction(caller): %v", err)
	}
	callee, err := tr.GetFunction(0x2000)
	if err != nil {
		t.Fatalf("GetFunction(callee): %v", err)
	}

	g := BuildCallGraph([]*translator.Function{caller, callee})
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d: %+v", len(g.Nodes), g.Nodes)
	}
	found := false
	for _, e := range g.Edges {
		if e.Caller == funcName(0x1000) && e.Callee == funcName(0x2000) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an edge from func_1000 to func_2000, got %+v", g.Edges)
	}
}
