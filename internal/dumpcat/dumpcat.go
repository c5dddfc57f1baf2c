// Package dumpcat loads the function-boundary catalog produced out-of-band
// by a disassembler plugin: the sibling files "<binary>.dmp" and
// "<binary>.dmp.no-return", both encoded as JSON.
package dumpcat

import (
	"encoding/json"
	"fmt"
	"os"

	"vexlift/internal/addr"
)

// BlockDescriptor is one basic block entry for a function in the catalog.
type BlockDescriptor struct {
	Start        addr.Addr `json:"start"`
	End          addr.Addr `json:"end"`
	Instructions int       `json:"instructions"`
}

// funcEntry is the on-disk shape of one function in the ".dmp" file.
type funcEntry struct {
	Entry  addr.Addr         `json:"entry"`
	Blocks []BlockDescriptor `json:"blocks"`
}

// Catalog is a parsed function-boundary dump plus its non-returning
// overlay. Its block descriptors are this package's own BlockDescriptor
// type, so it does not satisfy translator.Catalog directly; cmd/vexlift
// adapts it.
type Catalog struct {
	functions    map[uint64][]BlockDescriptor
	nonReturning map[uint64]struct{}
}

// Load reads the ".dmp" JSON file at dmpPath and the ".dmp.no-return" JSON
// file at noReturnPath (a JSON array of "0x..." addresses) into a Catalog.
func Load(dmpPath, noReturnPath string) (*Catalog, error) {
	funcs, err := loadFunctions(dmpPath)
	if err != nil {
		return nil, fmt.Errorf("dumpcat: %w", err)
	}
	nonReturning, err := loadNonReturning(noReturnPath)
	if err != nil {
		return nil, fmt.Errorf("dumpcat: %w", err)
	}
	return &Catalog{functions: funcs, nonReturning: nonReturning}, nil
}

func loadFunctions(path string) (map[uint64][]BlockDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var entries []funcEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[uint64][]BlockDescriptor, len(entries))
	for _, e := range entries {
		out[uint64(e.Entry)] = e.Blocks
	}
	return out, nil
}

func loadNonReturning(path string) (map[uint64]struct{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var addrs []addr.Addr
	if err := json.Unmarshal(raw, &addrs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[uint64]struct{}, len(addrs))
	for _, a := range addrs {
		out[uint64(a)] = struct{}{}
	}
	return out, nil
}

// Functions returns the ordered block descriptors for every catalog entry,
// keyed by entry address.
func (c *Catalog) Functions() map[uint64][]BlockDescriptor {
	return c.functions
}

// NonReturning returns the set of addresses known a priori not to return.
func (c *Catalog) NonReturning() map[uint64]struct{} {
	return c.nonReturning
}

// DmpPaths returns the conventional sibling-file paths for a binary at
// binPath: "<binPath>.dmp" and "<binPath>.dmp.no-return".
func DmpPaths(binPath string) (dmp, noReturn string) {
	return binPath + ".dmp", binPath + ".dmp.no-return"
}
