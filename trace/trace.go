// Package trace records Magic Number executions for diagnostic replay.
//
// A Recorder plugs into vm.Options.Tracer and keeps, for every executed
// instruction (and every label declaration seen by the label pass), the raw
// instruction and a snapshot of the operand stack, plus all program output.
// Traces can be dumped as text or persisted as CBOR.
package trace

import (
	"strings"

	"github.com/daniel-ostrowski/magic-number-executer/vm"
)

// FormatVersion is the current trace file format version.
const FormatVersion uint16 = 1

// Entry is one recorded instruction.
type Entry struct {
	Index   int       `cbor:"1,keyasint"`           // Statement number
	Raw     string    `cbor:"2,keyasint"`           // Instruction digits
	Op      string    `cbor:"3,keyasint"`           // Mnemonic
	Effect  string    `cbor:"4,keyasint"`           // vm.Effect name
	Stack   []float64 `cbor:"5,keyasint"`           // Stack after the instruction
	Prepass bool      `cbor:"6,keyasint,omitempty"` // Recorded by the label pass
}

// Trace is a complete execution record.
type Trace struct {
	Version uint16  `cbor:"1,keyasint"`
	Program string  `cbor:"2,keyasint,omitempty"` // Decoded digits, skips removed
	Entries []Entry `cbor:"3,keyasint"`
	Output  string  `cbor:"4,keyasint"` // Everything the program wrote
}

// Recorder implements vm.Tracer.
type Recorder struct {
	entries []Entry
	output  strings.Builder
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Step records one instruction.
func (r *Recorder) Step(s vm.Step) {
	r.entries = append(r.entries, Entry{
		Index:   s.Index,
		Raw:     s.Instruction.Raw,
		Op:      s.Instruction.Op.String(),
		Effect:  s.Effect.String(),
		Stack:   s.Stack,
		Prepass: s.Prepass,
	})
}

// Output appends program output to the accumulated record.
func (r *Recorder) Output(text string) {
	r.output.WriteString(text)
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Trace returns the recorded data. program is stored alongside it and may
// be empty.
func (r *Recorder) Trace(program string) *Trace {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return &Trace{
		Version: FormatVersion,
		Program: program,
		Entries: entries,
		Output:  r.output.String(),
	}
}
