package server

import (
	"fmt"
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/daniel-ostrowski/magic-number-executer/pkg/bytecode"
)

// document is the decoded form of one open editor buffer.
type document struct {
	source       bytecode.Source
	program      *bytecode.Program
	instructions []bytecode.Instruction
	skips        []bytecode.Skip
	labels       *bytecode.LabelTable
}

// analyze decodes text. Everything that is not a digit is ignored.
func analyze(text string) *document {
	src := bytecode.StripSource(text)
	prog, skips := bytecode.DecodeReport(src.Digits)
	return &document{
		source:       src,
		program:      prog,
		instructions: prog.Instructions(),
		skips:        skips,
		labels:       bytecode.BuildLabels(prog, nil),
	}
}

// digitRange returns the editor range covering n digits starting at offset.
func (d *document) digitRange(offset, n int) protocol.Range {
	start := d.source.PositionOf(offset)
	end := d.source.PositionOf(offset + n - 1)
	if n <= 0 {
		end = start
	} else {
		end.Column++
	}
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(start.Line), Character: protocol.UInteger(start.Column)},
		End:   protocol.Position{Line: protocol.UInteger(end.Line), Character: protocol.UInteger(end.Column)},
	}
}

func (d *document) instructionRange(i int) protocol.Range {
	ins := d.instructions[i]
	return d.digitRange(ins.Offset, ins.Len())
}

// instructionAt returns the statement number of the instruction whose
// digits include the cursor. A cursor just past the last digit of an
// instruction still selects it.
func (d *document) instructionAt(pos protocol.Position) (int, bool) {
	p := bytecode.Position{Line: int(pos.Line), Column: int(pos.Character)}
	offset, ok := d.source.OffsetAt(p)
	if !ok && p.Column > 0 {
		p.Column--
		offset, ok = d.source.OffsetAt(p)
	}
	if !ok {
		return 0, false
	}

	i := sort.Search(len(d.instructions), func(i int) bool {
		return d.instructions[i].Offset+d.instructions[i].Len() > offset
	})
	if i == len(d.instructions) || d.instructions[i].Offset > offset {
		return 0, false // inside skipped digits
	}
	return i, true
}

// --- Diagnostics ---

func (d *document) diagnostics() []protocol.Diagnostic {
	source := lspName
	diagnostics := []protocol.Diagnostic{}

	for _, skip := range d.skips {
		severity := protocol.DiagnosticSeverityInformation
		var msg string
		switch skip.Reason {
		case bytecode.SkipUnknownOpcode:
			msg = fmt.Sprintf("%s is not an opcode; skipped", skip.Digits)
		case bytecode.SkipShortOpcode:
			msg = fmt.Sprintf("trailing digits %q are too short for an opcode; skipped", skip.Digits)
		case bytecode.SkipTruncated:
			severity = protocol.DiagnosticSeverityWarning
			op, _ := bytecode.LookupOpcode(skip.Digits[:bytecode.OpcodeDigits])
			msg = fmt.Sprintf("%s needs %d digits but only %d remain; skipped", op, op.InstructionLen(), len(skip.Digits))
		}
		code := protocol.IntegerOrString{Value: skip.Reason.String()}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    d.digitRange(skip.Offset, len(skip.Digits)),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  msg,
		})
	}

	for i, ins := range d.instructions {
		if ins.Op != bytecode.OpBranch {
			continue
		}
		if _, ok := d.labels.Resolve(ins.LabelOperand()); ok {
			continue
		}
		severity := protocol.DiagnosticSeverityHint
		code := protocol.IntegerOrString{Value: "undeclared-label"}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    d.instructionRange(i),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  fmt.Sprintf("label %s is never declared; this branch always falls through", ins.LabelOperand()),
		})
	}

	return diagnostics
}

// --- Hover ---

func (d *document) hover(pos protocol.Position) *protocol.Hover {
	i, ok := d.instructionAt(pos)
	if !ok {
		return nil
	}
	ins := d.instructions[i]

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** `%s`\n\n", ins.Op, ins.Op.Code())
	b.WriteString("```\n")
	b.WriteString(d.program.DisassembleInstruction(i, d.labels))
	b.WriteString("\n```\n\n")

	info := bytecode.GetOpcodeInfo(ins.Op)
	fmt.Fprintf(&b, "Statement %d, %d digits", i, ins.Len())
	if info.StackPop > 0 {
		fmt.Fprintf(&b, ", pops %d", info.StackPop)
	}
	if info.StackPush > 0 {
		fmt.Fprintf(&b, ", pushes %d", info.StackPush)
	}

	rng := d.instructionRange(i)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &rng,
	}
}

// --- Labels ---

// definition returns the declaration a branch under the cursor resolves to.
func (d *document) definition(uri protocol.DocumentUri, pos protocol.Position) []protocol.Location {
	i, ok := d.instructionAt(pos)
	if !ok || d.instructions[i].Op != bytecode.OpBranch {
		return nil
	}
	target, ok := d.labels.Resolve(d.instructions[i].LabelOperand())
	if !ok {
		return nil
	}
	return []protocol.Location{{URI: uri, Range: d.instructionRange(target)}}
}

// references returns every declaration and branch naming the label under
// the cursor.
func (d *document) references(uri protocol.DocumentUri, pos protocol.Position) []protocol.Location {
	i, ok := d.instructionAt(pos)
	if !ok {
		return nil
	}
	op := d.instructions[i].Op
	if op != bytecode.OpBranch && op != bytecode.OpDeclareLabel {
		return nil
	}
	label := d.instructions[i].LabelOperand()

	var locations []protocol.Location
	for j, ins := range d.instructions {
		if (ins.Op == bytecode.OpBranch || ins.Op == bytecode.OpDeclareLabel) && ins.LabelOperand() == label {
			locations = append(locations, protocol.Location{URI: uri, Range: d.instructionRange(j)})
		}
	}
	return locations
}

// --- Completion ---

func opcodeCompletions() []protocol.CompletionItem {
	ops := bytecode.AllOpcodes()
	items := make([]protocol.CompletionItem, 0, len(ops))
	kind := protocol.CompletionItemKindKeyword
	for _, op := range ops {
		code := op.Code()
		detail := op.String()
		doc := fmt.Sprintf("%d digits", op.InstructionLen())
		if n := op.OperandLen(); n > 0 {
			doc += fmt.Sprintf(" (%d operand digits follow the opcode)", n)
		}
		items = append(items, protocol.CompletionItem{
			Label:         code,
			Kind:          &kind,
			Detail:        &detail,
			Documentation: doc,
			InsertText:    &code,
			FilterText:    &detail,
		})
	}
	return items
}
