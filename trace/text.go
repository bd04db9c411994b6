package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/daniel-ostrowski/magic-number-executer/vm"
)

// WriteText dumps t as one "instruction, [stack]" line per entry followed
// by the accumulated output.
func (t *Trace) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range t.Entries {
		fmt.Fprintf(bw, "%s, %s\n", e.Raw, vm.FormatStack(e.Stack))
	}
	fmt.Fprintf(bw, "Output:\n%s\n", t.Output)
	return bw.Flush()
}

// WriteVerbose is WriteText with statement numbers, mnemonics and effects.
func (t *Trace) WriteVerbose(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range t.Entries {
		marker := ' '
		if e.Prepass {
			marker = '*'
		}
		fmt.Fprintf(bw, "%c%04d  %-13s %-14s %-12s %s\n",
			marker, e.Index, e.Raw, e.Op, e.Effect, vm.FormatStack(e.Stack))
	}
	fmt.Fprintf(bw, "Output:\n%s\n", t.Output)
	return bw.Flush()
}
