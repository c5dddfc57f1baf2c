package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "translate":
		err = cmdTranslate(os.Args[2:])
	case "render":
		err = cmdRender(os.Args[2:])
	case "llvm-dump":
		err = cmdLLVMDump(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `vexlift — function-boundary-driven machine code translator

Usage:
  vexlift translate --bin <path> --format elf64|pe64 --arch x86|arm64 [--entry <hex>]
      Translate one or all catalog functions and print a summary per function.

  vexlift render --bin <path> --format elf64|pe64 --arch x86|arm64 --entry <hex> [--callgraph]
      Translate a function and render its CFG (or the whole call graph) as Graphviz DOT.

  vexlift llvm-dump --bin <path> --format elf64|pe64 --arch x86|arm64
      Translate every catalog function and print a diagnostic LLVM IR skeleton.

Flags:
  --bin <path>     Path to the binary; "<path>.dmp" and "<path>.dmp.no-return" must sit alongside it
  --format <fmt>   elf64 or pe64
  --arch <arch>    x86 or arm64
  --entry <hex>    Function entry address, e.g. 0x401000 (omit to act on every catalog entry)
  --callgraph      render: emit the cross-function call graph instead of one function's CFG
`)
}
