package main

import (
	"flag"
	"fmt"
	"os"

	"vexlift/internal/translator"
)

func cmdTranslate(args []string) error {
	fs := flag.NewFlagSet("translate", flag.ExitOnError)
	binPath := fs.String("bin", "", "path to the binary")
	format := fs.String("format", "elf64", "elf64 or pe64")
	arch := fs.String("arch", "x86", "x86 or arm64")
	entryStr := fs.String("entry", "", "function entry address (hex); omit to translate every catalog entry")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *binPath == "" {
		return fmt.Errorf("--bin is required")
	}

	tr, img, err := openTranslator(*binPath, *format, *arch)
	if err != nil {
		return err
	}
	defer img.Close()

	if *entryStr != "" {
		entry, err := parseHexAddr(*entryStr)
		if err != nil {
			return fmt.Errorf("--entry: %w", err)
		}
		fn, err := tr.GetFunction(entry)
		if err != nil {
			return fmt.Errorf("translate 0x%x: %w", entry, err)
		}
		printFunctionSummary(fn)
		return nil
	}

	if err := tr.ParseKnownFunctions(); err != nil {
		return fmt.Errorf("translate catalog: %w", err)
	}
	for _, fn := range tr.OrderedFunctions() {
		printFunctionSummary(fn)
	}
	return nil
}

func printFunctionSummary(fn *translator.Function) {
	blocks := fn.Blocks()
	fmt.Fprintf(os.Stdout, "func_%08x: %d blocks\n", fn.Entry(), len(blocks))
	for _, b := range blocks {
		fmt.Fprintf(os.Stdout, "  block_%08x: %s target=0x%x fallthrough=0x%x tail=%v\n",
			b.Address, b.Term.Type, b.Term.Target, b.Term.FallThrough, b.Term.IsTail)
	}
}
