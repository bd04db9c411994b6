package bytecode

import "sort"

// Program is an ordered, immutable sequence of instructions. An
// instruction's index is its statement number: the value the instruction
// pointer holds while it executes and the target a branch resolves to.
type Program struct {
	instructions []Instruction
}

// NewProgram creates a Program holding a copy of instructions.
func NewProgram(instructions []Instruction) *Program {
	cp := make([]Instruction, len(instructions))
	copy(cp, instructions)
	return &Program{instructions: cp}
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.instructions)
}

// At returns the instruction at statement number i.
// Panics if i is out of range.
func (p *Program) At(i int) Instruction {
	return p.instructions[i]
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []Instruction {
	cp := make([]Instruction, p.Len())
	if p != nil {
		copy(cp, p.instructions)
	}
	return cp
}

// Digits reassembles the digit stream the program was decoded from, minus
// any skipped digits.
func (p *Program) Digits() string {
	if p == nil {
		return ""
	}
	n := 0
	for _, ins := range p.instructions {
		n += len(ins.Raw)
	}
	b := make([]byte, 0, n)
	for _, ins := range p.instructions {
		b = append(b, ins.Raw...)
	}
	return string(b)
}

// LabelTable maps label identifiers to statement numbers.
type LabelTable struct {
	targets map[Label]int
}

// BuildLabels makes a single forward pass over p and records every
// DECLARE_LABEL. A later declaration of the same label replaces an earlier
// one. If visit is non-nil it is called for each declaration after it has
// been recorded.
func BuildLabels(p *Program, visit func(index int, ins Instruction)) *LabelTable {
	t := &LabelTable{targets: make(map[Label]int)}
	for i := 0; i < p.Len(); i++ {
		ins := p.instructions[i]
		if ins.Op != OpDeclareLabel {
			continue
		}
		t.targets[ins.LabelOperand()] = i
		if visit != nil {
			visit(i, ins)
		}
	}
	return t
}

// Resolve returns the statement number of label l.
func (t *LabelTable) Resolve(l Label) (int, bool) {
	if t == nil {
		return 0, false
	}
	idx, ok := t.targets[l]
	return idx, ok
}

// Len returns the number of distinct labels.
func (t *LabelTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.targets)
}

// Labels returns the declared labels in ascending order.
func (t *LabelTable) Labels() []Label {
	if t == nil {
		return nil
	}
	labels := make([]Label, 0, len(t.targets))
	for l := range t.targets {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
