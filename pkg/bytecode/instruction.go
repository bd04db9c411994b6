package bytecode

import (
	"fmt"
	"strconv"
)

// Label identifies a branch target. It is written as six decimal digits.
type Label uint32

// LabelDigits is the width of the label operand of DECLARE_LABEL and BRANCH.
const LabelDigits = 6

// String returns the zero-padded six digit form of the label.
func (l Label) String() string {
	return fmt.Sprintf("%06d", uint32(l))
}

// Instruction is one decoded, fixed-width instruction.
type Instruction struct {
	Op      Opcode // Catalog entry selected by the first three digits
	Payload string // Operand digits following the opcode
	Raw     string // Full digit string, opcode included
	Offset  int    // Position of the first digit in the decoded digit stream
}

// NewInstruction builds an Instruction from its complete digit string.
// It reports false when raw does not start with a catalog opcode or its
// length differs from the opcode's fixed instruction length.
func NewInstruction(raw string) (Instruction, bool) {
	if len(raw) < OpcodeDigits {
		return Instruction{}, false
	}
	op, ok := LookupOpcode(raw[:OpcodeDigits])
	if !ok || len(raw) != op.InstructionLen() || !allDigits(raw) {
		return Instruction{}, false
	}
	return Instruction{Op: op, Payload: raw[OpcodeDigits:], Raw: raw}, true
}

// String returns the raw digits of the instruction.
func (ins Instruction) String() string {
	return ins.Raw
}

// Len returns the number of digits the instruction occupies.
func (ins Instruction) Len() int {
	return len(ins.Raw)
}

// IntegerOperand decodes the PUSH_INTEGER payload: one sign digit
// (0 positive, anything else negative) and six magnitude digits.
func (ins Instruction) IntegerOperand() float64 {
	p := ins.Payload
	if len(p) != 7 {
		return 0
	}
	n := digitsValue(p[1:])
	if p[0] != '0' {
		n = -n
	}
	return float64(n)
}

// FloatOperand decodes the PUSH_FLOAT payload: exponent sign digit, two
// exponent digits, mantissa sign digit and six mantissa digits.
func (ins Instruction) FloatOperand() float64 {
	p := ins.Payload
	if len(p) != 10 {
		return 0
	}
	exp := int(digitsValue(p[1:3]))
	if p[0] != '0' {
		exp = -exp
	}
	mantissa := digitsValue(p[4:10])
	if p[3] != '0' {
		mantissa = -mantissa
	}
	if mantissa == 0 {
		return 0
	}
	if exp >= 0 {
		// mantissa * 10^exp is an integer; round it once.
		f, err := strconv.ParseFloat(strconv.FormatInt(mantissa, 10)+"e"+strconv.Itoa(exp), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return float64(mantissa) * pow10(exp)
}

// LabelOperand decodes the six digit label of DECLARE_LABEL and BRANCH.
func (ins Instruction) LabelOperand() Label {
	if len(ins.Payload) != LabelDigits {
		return 0
	}
	return Label(digitsValue(ins.Payload))
}

// Operand returns the decoded operand in display form, or "" for opcodes
// that carry none.
func (ins Instruction) Operand() string {
	switch ins.Op {
	case OpPushInteger:
		return strconv.FormatFloat(ins.IntegerOperand(), 'f', -1, 64)
	case OpPushFloat:
		return strconv.FormatFloat(ins.FloatOperand(), 'g', -1, 64)
	case OpDeclareLabel, OpBranch:
		return "@" + ins.LabelOperand().String()
	default:
		return ""
	}
}

// pow10 returns the correctly rounded float64 nearest to 10^exp. math.Pow10
// multiplies two inexact factors for large exponents.
func pow10(exp int) float64 {
	f, err := strconv.ParseFloat("1e"+strconv.Itoa(exp), 64)
	if err != nil {
		return 0
	}
	return f
}

func digitsValue(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	return n
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
