package vm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/daniel-ostrowski/magic-number-executer/pkg/bytecode"
)

var log = commonlog.GetLogger("magicnum.vm")

// ErrStepLimit is returned when Options.MaxSteps instructions have executed
// and the program has not finished.
var ErrStepLimit = errors.New("step limit reached")

// Effect reports what a single instruction did. Handlers return an Effect
// instead of an error: nothing a program does is an error.
type Effect uint8

const (
	EffectNone       Effect = iota // opcode not handled
	EffectApplied                  // operands consumed and result produced
	EffectUnderflow                // stack ran out; popped operands are lost
	EffectFault                    // undefined arithmetic or unprintable character
	EffectNoInput                  // input unreadable or unparsable; FALSE pushed
	EffectLabel                    // label declaration, no runtime effect
	EffectJumped                   // branch taken
	EffectFellThrough              // branch condition false
	EffectUnresolved               // branch condition true but label undeclared
)

var effectNames = map[Effect]string{
	EffectNone:        "none",
	EffectApplied:     "applied",
	EffectUnderflow:   "underflow",
	EffectFault:       "fault",
	EffectNoInput:     "no-input",
	EffectLabel:       "label",
	EffectJumped:      "jumped",
	EffectFellThrough: "fell-through",
	EffectUnresolved:  "unresolved",
}

// String returns a short name for the effect.
func (e Effect) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Effect(%d)", e)
}

// Step describes one recorded instruction.
type Step struct {
	Index       int                  // Statement number
	Instruction bytecode.Instruction // The instruction executed
	Effect      Effect               // What it did
	Stack       []float64            // Stack after the instruction, bottom first
	Prepass     bool                 // Recorded by the label pass, not execution
}

// Tracer receives a record of execution. It is optional instrumentation;
// the machine behaves identically with or without one.
type Tracer interface {
	// Step is called after every executed instruction and after every
	// label declaration seen by the label pass.
	Step(s Step)
	// Output is called with every piece of text the program writes.
	Output(text string)
}

// Options configures a Machine. Zero values select standard input, standard
// output, no tracing and no step limit.
type Options struct {
	Input    Input
	Output   io.Writer
	Tracer   Tracer
	MaxSteps int
}

// Machine is one interpreter session: a program, its label table, the
// operand stack and the instruction pointer. Create a new Machine for every
// run; nothing is shared between machines.
type Machine struct {
	program *bytecode.Program
	labels  *bytecode.LabelTable
	stack   Stack
	ip      int
	steps   int

	in       Input
	out      io.Writer
	tracer   Tracer
	maxSteps int

	writeErr error
}

// New creates a session for p and resolves its labels. Label declarations
// are reported to opts.Tracer as prepass steps.
func New(p *bytecode.Program, opts Options) *Machine {
	m := &Machine{
		program:  p,
		in:       opts.Input,
		out:      opts.Output,
		tracer:   opts.Tracer,
		maxSteps: opts.MaxSteps,
	}
	if m.in == nil {
		m.in = NewLineReader(os.Stdin)
	}
	if m.out == nil {
		m.out = os.Stdout
	}

	m.labels = bytecode.BuildLabels(p, func(i int, ins bytecode.Instruction) {
		if m.tracer != nil {
			m.tracer.Step(Step{Index: i, Instruction: ins, Effect: EffectLabel, Stack: m.stack.Snapshot(), Prepass: true})
		}
	})
	return m
}

// NewFromDigits decodes digits and creates a session for the result.
func NewFromDigits(digits string, opts Options) *Machine {
	return New(bytecode.Decode(digits), opts)
}

// Run executes until the instruction pointer leaves the program. A program
// that loops forever makes Run block forever unless MaxSteps is set. The
// only errors are ErrInputExhausted from a scripted input and ErrStepLimit.
func (m *Machine) Run() error {
	log.Debugf("session start: %d instructions, %d labels", m.program.Len(), m.labels.Len())
	for {
		more, err := m.Step()
		if err != nil {
			log.Debugf("session stopped after %d steps: %s", m.steps, err)
			return err
		}
		if !more {
			break
		}
	}
	log.Debugf("session end: %d steps, stack depth %d", m.steps, m.stack.Len())
	return nil
}

// Step executes one instruction. It reports false once the program has
// finished.
func (m *Machine) Step() (bool, error) {
	if m.ip < 0 || m.ip >= m.program.Len() {
		return false, nil
	}
	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return false, fmt.Errorf("after %d steps: %w", m.steps, ErrStepLimit)
	}

	index := m.ip
	ins := m.program.At(index)
	next, effect, err := m.execute(ins)
	if err != nil {
		return false, fmt.Errorf("statement %d (%s): %w", index, ins.Op, err)
	}

	m.ip = next
	m.steps++
	if m.tracer != nil {
		m.tracer.Step(Step{Index: index, Instruction: ins, Effect: effect, Stack: m.stack.Snapshot()})
	}
	return m.ip < m.program.Len(), nil
}

// write sends program output. A failing writer does not stop the program;
// the first failure is logged and kept for WriteErr.
func (m *Machine) write(text string) {
	if _, err := io.WriteString(m.out, text); err != nil && m.writeErr == nil {
		m.writeErr = err
		log.Warningf("output write failed: %s", err)
	}
	if m.tracer != nil {
		m.tracer.Output(text)
	}
}

// Stack returns a copy of the operand stack, bottom first.
func (m *Machine) Stack() []float64 {
	return m.stack.Snapshot()
}

// IP returns the instruction pointer.
func (m *Machine) IP() int {
	return m.ip
}

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() int {
	return m.steps
}

// Program returns the program being executed.
func (m *Machine) Program() *bytecode.Program {
	return m.program
}

// Labels returns the session's label table.
func (m *Machine) Labels() *bytecode.LabelTable {
	return m.labels
}

// WriteErr returns the first error the output writer reported, if any.
func (m *Machine) WriteErr() error {
	return m.writeErr
}
