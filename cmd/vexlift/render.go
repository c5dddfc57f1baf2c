package main

import (
	"flag"
	"fmt"
	"os"

	"vexlift/internal/render"
)

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	binPath := fs.String("bin", "", "path to the binary")
	format := fs.String("format", "elf64", "elf64 or pe64")
	arch := fs.String("arch", "x86", "x86 or arm64")
	entryStr := fs.String("entry", "", "function entry address (hex)")
	callGraph := fs.Bool("callgraph", false, "emit the cross-function call graph instead of one function's CFG")

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

	if *callGraph {
		if err := tr.ParseKnownFunctions(); err != nil {
			return fmt.Errorf("translate catalog: %w", err)
		}
		fmt.Fprint(os.Stdout, render.DOTCallGraph(tr.OrderedFunctions(), *binPath))
		return nil
	}

	if *entryStr == "" {
		return fmt.Errorf("--entry is required unless --callgraph is set")
	}
	entry, err := parseHexAddr(*entryStr)
	if err != nil {
		return fmt.Errorf("--entry: %w", err)
	}
	fn, err := tr.GetFunction(entry)
	if err != nil {
		return fmt.Errorf("translate 0x%x: %w", entry, err)
	}
	fmt.Fprint(os.Stdout, render.DOTCFG(fn, fmt.Sprintf("%s func_%08x", *binPath, entry)))
	return nil
}
