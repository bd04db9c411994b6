// Magic Number CLI - runs, disassembles and serves Magic Number programs
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"

	"github.com/daniel-ostrowski/magic-number-executer/manifest"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

var log = commonlog.GetLogger("magicnum.cli")

// settings is the merged result of magicnum.toml and command-line flags.
type settings struct {
	debug     bool
	traceOut  string
	maxSteps  int
	verbosity int
	logFile   string
	lines     []string // scripted input; nil reads standard input
}

func main() {
	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		if err := stdout.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: flushing output: %v\n", err)
		}
	})
	atexit.Register(flushLog)
	atexit.Exit(run(os.Args[1:], os.Stdin, stdout, os.Stderr))
}

// flushLog drains the log backend's buffered writer. atexit.Exit bypasses
// the backend's own exit hooks, so without this the last lines are lost.
func flushLog() {
	if c, ok := commonlog.GetWriter().(io.Closer); ok {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: flushing log: %v\n", err)
		}
	}
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mn", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "Print an execution trace to stderr after the run")
	traceOut := fs.String("trace-out", "", "Write a CBOR execution trace to `file`")
	maxSteps := fs.Int("max-steps", 0, "Stop after `n` instructions (0 = unlimited)")
	configPath := fs.String("config", "", "Read settings from `file` instead of searching for magicnum.toml")
	verbose := fs.Bool("v", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mn [options] PROGRAM\n")
		fmt.Fprintf(stderr, "       mn disasm PROGRAM\n")
		fmt.Fprintf(stderr, "       mn lsp\n\n")
		fmt.Fprintf(stderr, "Runs a Magic Number program. Every non-digit character in PROGRAM is ignored.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  mn hello_world.magic              # Run a program\n")
		fmt.Fprintf(stderr, "  mn -debug loop.magic              # Run, then dump every step\n")
		fmt.Fprintf(stderr, "  mn -max-steps 1000 -trace-out t.cbor loop.magic\n")
		fmt.Fprintf(stderr, "  mn disasm loop.magic              # Show decoded instructions\n")
		fmt.Fprintf(stderr, "  mn lsp                            # Start the language server on stdio\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	var command, program string
	switch {
	case len(rest) == 1 && rest[0] == "lsp":
		command = "lsp"
	case len(rest) == 2 && rest[0] == "disasm":
		command, program = "disasm", rest[1]
	case len(rest) == 1 && rest[0] != "disasm":
		command, program = "run", rest[0]
	default:
		fs.Usage()
		return 2
	}

	// Load configuration, then let explicitly set flags override it
	searchDir := "."
	if program != "" {
		searchDir = filepath.Dir(program)
	}
	cfg, err := loadConfig(*configPath, searchDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	s := merge(cfg, fs, settings{
		debug:    *debug,
		traceOut: *traceOut,
		maxSteps: *maxSteps,
	})
	if *verbose {
		s.verbosity = 2
	}
	if s.maxSteps < 0 {
		fmt.Fprintf(stderr, "Error: -max-steps must not be negative\n")
		return 2
	}

	if s.logFile != "" {
		commonlog.Configure(s.verbosity, &s.logFile)
	} else {
		commonlog.Configure(s.verbosity, nil)
	}
	if cfg != nil {
		log.Infof("using %s", cfg.Path)
	}

	switch command {
	case "lsp":
		return serveLSP(stderr)
	case "disasm":
		return disassemble(program, stdout, stderr)
	default:
		return execute(program, s, stdin, stdout, stderr)
	}
}

// loadConfig reads an explicit config file or searches upward from dir.
// A missing magicnum.toml is not an error.
func loadConfig(path, dir string) (*manifest.Manifest, error) {
	if path != "" {
		return manifest.LoadFile(path)
	}
	return manifest.FindAndLoad(dir)
}

// merge overlays the flags that were set on the command line onto the
// config file values.
func merge(cfg *manifest.Manifest, fs *flag.FlagSet, flags settings) settings {
	var s settings
	if cfg != nil {
		s = settings{
			debug:     cfg.Run.Debug,
			traceOut:  cfg.TraceOutPath(),
			maxSteps:  cfg.Run.MaxSteps,
			verbosity: cfg.Log.Verbosity,
			logFile:   cfg.LogFilePath(),
		}
		if cfg.Scripted() {
			s.lines = cfg.Input.Lines
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			s.debug = flags.debug
		case "trace-out":
			s.traceOut = flags.traceOut
		case "max-steps":
			s.maxSteps = flags.maxSteps
		}
	})
	return s
}
