// cmd/bytecgen is a thin JSON-in/source-out driver for the backend
// (SPEC_FULL.md's "Configuration" section): it reads an ir.Module as
// JSON from a path argument or stdin and writes the emitted source to
// stdout or a path, dispatched by a small manual arg switch — no
// cobra/viper, matching the teacher's own cmd/sentra/main.go. A real
// frontend and symbol interner are out of scope for this repository
// (spec.md §6, "external collaborators"); internal/irjson's decoded
// tables stand in for one, and internal/demo's fixture gives a no-input
// smoke test.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"bytec/internal/bcerr"
	"bytec/internal/demo"
	"bytec/internal/ir"
	"bytec/internal/irjson"
	"bytec/internal/module"
	"bytec/internal/symtab"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"g": "gen",
	"d": "demo",
	"v": "version",
	"h": "help",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "help", "--help", "-h":
		showUsage()
	case "version", "--version", "-v":
		fmt.Printf("bytecgen %s\n", version)
	case "demo":
		runDemo()
	case "gen":
		runGen(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`bytecgen — IR-to-Java backend driver

Usage:
  bytecgen gen [in] [out]   read an IR module as JSON from a path (or
                            stdin when in is "-" or omitted) and write
                            generated source to a path (or stdout when
                            out is omitted)
  bytecgen demo             run the backend over the built-in demo module
  bytecgen version          print the version
  bytecgen help             show this message`)
}

// runGen decodes an IR module from the requested input, then drives it
// through DeclareTypes -> DeclareNames -> Codegen and writes the result
// to the requested output.
func runGen(args []string) {
	in := os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("bytecgen: %v", err)
		}
		defer f.Close()
		in = f
	}

	mod, bnd, err := irjson.Decode(in)
	if err != nil {
		log.Fatalf("bytecgen: %v", err)
	}

	out := os.Stdout
	if len(args) > 1 && args[1] != "-" {
		f, err := os.Create(args[1])
		if err != nil {
			log.Fatalf("bytecgen: %v", err)
		}
		defer f.Close()
		out = f
	}

	generate([]ir.Module{mod}, bnd, out)
}

// runDemo wires internal/demo's fixture module through the same
// pipeline as runGen, as a no-input smoke test.
func runDemo() {
	in := demo.New()
	generate([]ir.Module{demo.Module(in)}, in, os.Stdout)
}

// generate drives DeclareTypes -> DeclareNames -> Codegen over mods and
// writes the result to w. A fatal abort (bcerr.AbortError) is recovered
// here only to print a stack-bearing diagnostic; per spec.md §7 there
// is no partial output and no recovery policy, so the process still
// exits non-zero.
func generate(mods []ir.Module, bnd ir.Bindings, w io.Writer) {
	runID := uuid.New()
	start := time.Now()
	colorize := isatty.IsTerminal(os.Stdout.Fd())

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok {
			var ae *bcerr.AbortError
			if errors.As(err, &ae) {
				log.Fatalf("[%s] backend aborted: %+v", runID, err)
			}
		}
		log.Fatalf("[%s] backend panic: %v", runID, r)
	}()

	s := symtab.New()
	module.DeclareTypes(mods, s, bnd)
	tables := module.DeclareNames(mods, s, bnd)
	out := module.Codegen(mods, tables, s, bnd, "generated", "Generated")

	elapsed := time.Since(start)
	prefix, suffix := "", ""
	if colorize {
		prefix, suffix = "\x1b[32m", "\x1b[0m"
	}
	log.Printf("%s[%s] generated %s in %s%s", prefix, runID, humanize.Bytes(uint64(len(out))), elapsed, suffix)

	fmt.Fprintln(w, out)
}
