package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a human-readable listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	// Header
	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; Magic Number program: %d instructions, %d digits\n",
		p.Len(), len(p.Digits())))

	labels := BuildLabels(p, nil)
	if labels.Len() > 0 {
		sb.WriteString("; Labels:\n")
		for _, l := range labels.Labels() {
			idx, _ := labels.Resolve(l)
			sb.WriteString(fmt.Sprintf(";   @%s -> %04d\n", l, idx))
		}
	}
	sb.WriteString("\n")

	// Code section
	sb.WriteString("; Code:\n")
	for i := 0; i < p.Len(); i++ {
		sb.WriteString(fmt.Sprintf("%04d  %s\n", i, p.DisassembleInstruction(i, labels)))
	}

	return sb.String()
}

// DisassembleInstruction formats the instruction at statement number i.
// Branch targets are annotated from labels when it is non-nil.
func (p *Program) DisassembleInstruction(i int, labels *LabelTable) string {
	if i < 0 || i >= p.Len() {
		return "<end of program>"
	}
	ins := p.instructions[i]
	text := fmt.Sprintf("%-13s %-14s", ins.Raw, ins.Op.String())

	switch ins.Op {
	case OpPushInteger, OpPushFloat:
		text += " " + ins.Operand()

	case OpDeclareLabel:
		text += " " + ins.Operand()

	case OpBranch:
		text += " " + ins.Operand()
		if labels != nil {
			if target, ok := labels.Resolve(ins.LabelOperand()); ok {
				text += fmt.Sprintf(" ; -> %04d", target)
			} else {
				text += " ; unresolved"
			}
		}
	}

	return strings.TrimRight(text, " ")
}
