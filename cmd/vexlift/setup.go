package main

import (
	"fmt"
	"strconv"
	"strings"

	"vexlift/internal/dumpcat"
	"vexlift/internal/lifter"
	"vexlift/internal/memimage"
	"vexlift/internal/translator"
)

// catalogAdapter bridges dumpcat.Catalog, whose block descriptors carry
// addr.Addr bounds, to the translator.Catalog interface the core expects,
// whose descriptors use plain uint64.
type catalogAdapter struct {
	cat *dumpcat.Catalog
}

func (a catalogAdapter) Functions() map[uint64][]translator.BlockDescriptor {
	out := make(map[uint64][]translator.BlockDescriptor)
	for entry, blocks := range a.cat.Functions() {
		descs := make([]translator.BlockDescriptor, len(blocks))
		for i, b := range blocks {
			descs[i] = translator.BlockDescriptor{
				Start:            uint64(b.Start),
				End:              uint64(b.End),
				InstructionCount: b.Instructions,
			}
		}
		out[entry] = descs
	}
	return out
}

func (a catalogAdapter) NonReturning() map[uint64]struct{} {
	return a.cat.NonReturning()
}

// openTranslator wires a memimage.Image, a dumpcat.Catalog, and an
// architecture-appropriate Lifter into a *translator.Translator, per
// --bin/--format/--arch. Callers must Close() the returned *memimage.Image
// once done with the Translator.
func openTranslator(binPath, format, arch string) (*translator.Translator, *memimage.Image, error) {
	var imgFormat memimage.Format
	switch format {
	case "elf64":
		imgFormat = memimage.FormatELF64
	case "pe64":
		imgFormat = memimage.FormatPE64
	default:
		return nil, nil, fmt.Errorf("unknown --format %q (want elf64 or pe64)", format)
	}

	var lft translator.Lifter
	switch arch {
	case "x86":
		lft = lifter.X86{}
	case "arm64":
		lft = lifter.ARM64{}
	default:
		return nil, nil, fmt.Errorf("unknown --arch %q (want x86 or arm64)", arch)
	}

	img, err := memimage.Open(binPath, imgFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("open memory image: %w", err)
	}

	dmpPath, noReturnPath := dumpcat.DmpPaths(binPath)
	cat, err := dumpcat.Load(dmpPath, noReturnPath)
	if err != nil {
		img.Close()
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	tr := translator.New(lft, img, catalogAdapter{cat: cat})
	return tr, img, nil
}

// parseHexAddr parses a hexadecimal address string, with or without a
// "0x" prefix.
func parseHexAddr(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}
