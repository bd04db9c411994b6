package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/daniel-ostrowski/magic-number-executer/pkg/bytecode"
	"github.com/daniel-ostrowski/magic-number-executer/server"
	"github.com/daniel-ostrowski/magic-number-executer/trace"
	"github.com/daniel-ostrowski/magic-number-executer/vm"
)

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// promptInput flushes pending output before every read so prompts appear
// before the program blocks on input.
type promptInput struct {
	in  vm.Input
	out flusher
}

func (p promptInput) NextLine() (string, error) {
	if err := p.out.Flush(); err != nil {
		log.Warningf("flushing output: %s", err)
	}
	return p.in.NextLine()
}

// load reads and decodes a program file, logging every skipped digit run.
func load(path string) (*bytecode.Program, error) {
	src, err := bytecode.LoadFile(path)
	if err != nil {
		return nil, err
	}
	prog, skips := bytecode.DecodeReport(src.Digits)
	for _, skip := range skips {
		p := src.PositionOf(skip.Offset)
		log.Infof("%s:%d:%d: skipped %q (%s)", path, p.Line+1, p.Column+1, skip.Digits, skip.Reason)
	}
	log.Debugf("%s: %d instructions from %d digits", path, prog.Len(), len(src.Digits))
	return prog, nil
}

// execute runs a program file and reports its trace.
func execute(path string, s settings, stdin io.Reader, stdout, stderr io.Writer) int {
	prog, err := load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := vm.Options{
		Output:   stdout,
		MaxSteps: s.maxSteps,
	}
	if s.lines != nil {
		opts.Input = vm.NewScriptedInput(s.lines...)
	} else {
		opts.Input = vm.NewLineReader(stdin)
		if f, ok := stdout.(flusher); ok {
			opts.Input = promptInput{in: opts.Input, out: f}
		}
	}

	var rec *trace.Recorder
	if s.debug || s.traceOut != "" {
		rec = trace.NewRecorder()
		opts.Tracer = rec
	}

	m := vm.New(prog, opts)
	runErr := m.Run()

	code := 0
	if runErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		code = 1
	}
	if err := m.WriteErr(); err != nil && code == 0 {
		fmt.Fprintf(stderr, "Error: writing output: %v\n", err)
		code = 1
	}

	if rec != nil {
		if err := writeTrace(rec.Trace(prog.Digits()), s, stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			if code == 0 {
				code = 1
			}
		}
	}
	return code
}

func writeTrace(tr *trace.Trace, s settings, stdout, stderr io.Writer) error {
	if s.debug {
		// Program output first so the dump follows it on a shared terminal.
		if f, ok := stdout.(flusher); ok {
			if err := f.Flush(); err != nil {
				return fmt.Errorf("flushing output: %w", err)
			}
		}
		if err := tr.WriteText(stderr); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	if s.traceOut != "" {
		if err := trace.WriteFile(s.traceOut, tr); err != nil {
			return err
		}
		log.Infof("trace written to %s (%d entries)", s.traceOut, len(tr.Entries))
	}
	return nil
}

// disassemble prints the decoded instructions of a program file.
func disassemble(path string, stdout, stderr io.Writer) int {
	prog, err := load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	w := bufio.NewWriter(stdout)
	fmt.Fprint(w, prog.DisassembleWithName(filepath.Base(path)))
	if err := w.Flush(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// serveLSP runs the language server on stdio until the client disconnects.
func serveLSP(stderr io.Writer) int {
	log.Noticef("starting language server %s", version)
	if err := server.NewLSP(version).Run(); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}
