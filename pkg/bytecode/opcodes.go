package bytecode

import "fmt"

// Opcode identifies an instruction. The numeric value equals the 3-digit
// code that selects the instruction in program text, so OpPushInteger is
// written "001" and OpRemainder is written "022".
type Opcode uint8

const (
	OpInvalid Opcode = 0 // never produced by the decoder

	// ========================================================================
	// Constants (001-002)
	// ========================================================================

	OpPushInteger Opcode = 1 // 001 S DDDDDD: push signed integer
	OpPushFloat   Opcode = 2 // 002 S EE S DDDDDD: push mantissa * 10^exponent

	// ========================================================================
	// Input / output (003-006)
	// ========================================================================

	OpReadFloat  Opcode = 3 // read a line, push value and TRUE, or FALSE
	OpReadString Opcode = 4 // read a line, push code points last to first, then TRUE
	OpPrintFloat Opcode = 5 // pop and print as float
	OpPrintChar  Opcode = 6 // pop, truncate, print as character

	// ========================================================================
	// Control flow (007-008)
	// ========================================================================

	OpDeclareLabel Opcode = 7 // 007 LLLLLL: mark a branch target
	OpBranch       Opcode = 8 // 008 LLLLLL: pop, jump to label if true

	// ========================================================================
	// Logic and comparison (009-015)
	// ========================================================================

	OpToBoolean   Opcode = 9  // pop x, push 1 if true else 0
	OpNot         Opcode = 10 // pop x, push 0 if true else 1
	OpAnd         Opcode = 11 // pop a, pop b, push a && b
	OpOr          Opcode = 12 // pop a, pop b, push a || b
	OpLessThan    Opcode = 13 // pop a, pop b, push a < b
	OpGreaterThan Opcode = 14 // pop a, pop b, push a > b
	OpEqual       Opcode = 15 // pop a, pop b, push |a - b| < tolerance

	// ========================================================================
	// Arithmetic (016-019, 022)
	// ========================================================================

	OpAdd      Opcode = 16 // pop a, pop b, push a + b
	OpSubtract Opcode = 17 // pop a, pop b, push a - b
	OpMultiply Opcode = 18 // pop a, pop b, push a * b
	OpDivide   Opcode = 19 // pop a, pop b, push a / b unless undefined

	// ========================================================================
	// Stack manipulation (020-021)
	// ========================================================================

	OpPop       Opcode = 20 // discard top of stack
	OpDuplicate Opcode = 21 // duplicate top of stack

	OpRemainder Opcode = 22 // pop a, pop b, push trunc(a) mod trunc(b)
)

// OpcodeDigits is the width of the opcode field that starts every instruction.
const OpcodeDigits = 3

// OpcodeInfo provides metadata about each opcode for decoding, debugging and
// validation.
type OpcodeInfo struct {
	Name      string // Human-readable name
	Length    int    // Total instruction length in digits, opcode included
	StackPop  int    // How many values popped from the stack
	StackPush int    // How many values pushed (-1 = variable)
}

// opcodeInfoTable is the instruction catalog.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	// Constants
	OpPushInteger: {"PUSH_INTEGER", 10, 0, 1},
	OpPushFloat:   {"PUSH_FLOAT", 13, 0, 1},

	// Input / output
	OpReadFloat:  {"READ_FLOAT", 3, 0, -1},
	OpReadString: {"READ_STRING", 3, 0, -1},
	OpPrintFloat: {"PRINT_FLOAT", 3, 1, 0},
	OpPrintChar:  {"PRINT_CHAR", 3, 1, 0},

	// Control flow
	OpDeclareLabel: {"DECLARE_LABEL", 9, 0, 0},
	OpBranch:       {"BRANCH", 9, 1, 0},

	// Logic and comparison
	OpToBoolean:   {"TO_BOOLEAN", 3, 1, 1},
	OpNot:         {"NOT", 3, 1, 1},
	OpAnd:         {"AND", 3, 2, 1},
	OpOr:          {"OR", 3, 2, 1},
	OpLessThan:    {"LESS_THAN", 3, 2, 1},
	OpGreaterThan: {"GREATER_THAN", 3, 2, 1},
	OpEqual:       {"EQUAL", 3, 2, 1},

	// Arithmetic
	OpAdd:       {"ADD", 3, 2, 1},
	OpSubtract:  {"SUBTRACT", 3, 2, 1},
	OpMultiply:  {"MULTIPLY", 3, 2, 1},
	OpDivide:    {"DIVIDE", 3, 2, 1},
	OpRemainder: {"REMAINDER", 3, 2, 1},

	// Stack manipulation
	OpPop:       {"POP", 3, 1, 0},
	OpDuplicate: {"DUPLICATE", 3, 1, 2},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%03d)", uint8(op))}
}

// LookupOpcode resolves a candidate opcode field. It reports false for
// anything that is not exactly three decimal digits naming a catalog entry.
func LookupOpcode(code string) (Opcode, bool) {
	if len(code) != OpcodeDigits {
		return OpInvalid, false
	}
	n := 0
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return OpInvalid, false
		}
		n = n*10 + int(c-'0')
	}
	if n > 255 {
		return OpInvalid, false
	}
	op := Opcode(n)
	if _, ok := opcodeInfoTable[op]; !ok {
		return OpInvalid, false
	}
	return op, true
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Code returns the 3-digit text form of the opcode.
func (op Opcode) Code() string {
	return fmt.Sprintf("%03d", uint8(op))
}

// InstructionLen returns the total length of an instruction in digits.
func (op Opcode) InstructionLen() int {
	return GetOpcodeInfo(op).Length
}

// OperandLen returns the number of digits following the opcode field.
func (op Opcode) OperandLen() int {
	n := op.InstructionLen() - OpcodeDigits
	if n < 0 {
		return 0
	}
	return n
}

// IsValid reports whether op is part of the catalog.
func (op Opcode) IsValid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// IsJump returns true if this opcode can transfer control.
func (op Opcode) IsJump() bool {
	return op == OpBranch
}

// IsBinary returns true if this opcode pops two operands and pushes one result.
func (op Opcode) IsBinary() bool {
	switch op {
	case OpAnd, OpOr, OpLessThan, OpGreaterThan, OpEqual,
		OpAdd, OpSubtract, OpMultiply, OpDivide, OpRemainder:
		return true
	}
	return false
}

// ReadsInput returns true if this opcode consumes a line of input.
func (op Opcode) ReadsInput() bool {
	return op == OpReadFloat || op == OpReadString
}

// AllOpcodes returns every catalog opcode in ascending code order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := OpPushInteger; op <= OpRemainder; op++ {
		if op.IsValid() {
			opcodes = append(opcodes, op)
		}
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
