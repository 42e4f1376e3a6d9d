// Command rustache renders one template from a directory of Mustache
// templates to stdout, for manual smoke-testing of the engine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jacob-roling/rustache"
)

func main() {
	root := flag.String("dir", ".", "template root directory")
	pattern := flag.String("pattern", "*.mustache", "glob pattern for template files")
	debug := flag.Bool("debug", false, "log per-file load failures")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rustache -dir DIR -pattern PATTERN NAME")
		os.Exit(2)
	}
	name := flag.Arg(0)

	reg, err := rustache.Open(*root, *pattern, rustache.WithDebug(*debug))
	if reg == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	if err := reg.Render(name, os.Stdout, rustache.NewNone()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
