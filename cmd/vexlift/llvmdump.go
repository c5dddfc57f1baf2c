package main

import (
	"flag"
	"fmt"
	"os"

	"vexlift/internal/llexport"
)

func cmdLLVMDump(args []string) error {
	fs := flag.NewFlagSet("llvm-dump", flag.ExitOnError)
	binPath := fs.String("bin", "", "path to the binary")
	format := fs.String("format", "elf64", "elf64 or pe64")
	arch := fs.String("arch", "x86", "x86 or arm64")

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

	if err := tr.ParseKnownFunctions(); err != nil {
		return fmt.Errorf("translate catalog: %w", err)
	}

	m := llexport.Module(tr.OrderedFunctions())
	fmt.Fprintln(os.Stdout, m.String())
	return nil
}
