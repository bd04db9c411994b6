package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	// Ensure every defined opcode has metadata
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode %s has no metadata", op.Code())
		}
		if info.Length < OpcodeDigits {
			t.Errorf("Opcode %s has length %d, shorter than its opcode field", op.Code(), info.Length)
		}
	}
}

func TestOpcodeCount(t *testing.T) {
	if got := OpcodeCount(); got != 22 {
		t.Errorf("OpcodeCount() = %d, want 22", got)
	}
	if got := len(AllOpcodes()); got != OpcodeCount() {
		t.Errorf("len(AllOpcodes()) = %d, want %d", got, OpcodeCount())
	}
}

func TestAllOpcodesAscending(t *testing.T) {
	ops := AllOpcodes()
	for i := 1; i < len(ops); i++ {
		if ops[i] <= ops[i-1] {
			t.Fatalf("AllOpcodes not ascending at %d: %s after %s", i, ops[i].Code(), ops[i-1].Code())
		}
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpPushInteger, "PUSH_INTEGER"},
		{OpPushFloat, "PUSH_FLOAT"},
		{OpReadString, "READ_STRING"},
		{OpDeclareLabel, "DECLARE_LABEL"},
		{OpBranch, "BRANCH"},
		{OpSubtract, "SUBTRACT"},
		{OpDuplicate, "DUPLICATE"},
		{OpRemainder, "REMAINDER"},
	}

	for _, tt := range tests {
		got := tt.op.String()
		if got != tt.want {
			t.Errorf("Opcode(%s).String() = %q, want %q", tt.op.Code(), got, tt.want)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	got := Opcode(99).String()
	if got != "UNKNOWN(099)" {
		t.Errorf("unknown opcode String() = %q, want %q", got, "UNKNOWN(099)")
	}
}

func TestOpcodeInstructionLen(t *testing.T) {
	tests := []struct {
		op   Opcode
		want int
	}{
		{OpPushInteger, 10},
		{OpPushFloat, 13},
		{OpDeclareLabel, 9},
		{OpBranch, 9},
		{OpReadFloat, 3},
		{OpPrintChar, 3},
		{OpAdd, 3},
		{OpRemainder, 3},
	}

	for _, tt := range tests {
		if got := tt.op.InstructionLen(); got != tt.want {
			t.Errorf("%s.InstructionLen() = %d, want %d", tt.op, got, tt.want)
		}
		if got := tt.op.OperandLen(); got != tt.want-OpcodeDigits {
			t.Errorf("%s.OperandLen() = %d, want %d", tt.op, got, tt.want-OpcodeDigits)
		}
	}
}

func TestLookupOpcode(t *testing.T) {
	tests := []struct {
		code   string
		want   Opcode
		wantOK bool
	}{
		{"001", OpPushInteger, true},
		{"008", OpBranch, true},
		{"022", OpRemainder, true},
		{"000", OpInvalid, false},
		{"023", OpInvalid, false},
		{"999", OpInvalid, false},
		{"01", OpInvalid, false},
		{"0001", OpInvalid, false},
		{"0a1", OpInvalid, false},
		{"", OpInvalid, false},
	}

	for _, tt := range tests {
		got, ok := LookupOpcode(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LookupOpcode(%q) = (%v, %v), want (%v, %v)", tt.code, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestOpcodeCodeRoundTrip(t *testing.T) {
	for _, op := range AllOpcodes() {
		got, ok := LookupOpcode(op.Code())
		if !ok || got != op {
			t.Errorf("LookupOpcode(%q) = (%v, %v), want (%v, true)", op.Code(), got, ok, op)
		}
	}
}

func TestOpcodeClassification(t *testing.T) {
	binary := 0
	for _, op := range AllOpcodes() {
		if op.IsBinary() {
			binary++
			info := GetOpcodeInfo(op)
			if info.StackPop != 2 || info.StackPush != 1 {
				t.Errorf("%s is binary but pops %d / pushes %d", op, info.StackPop, info.StackPush)
			}
		}
	}
	if binary != 10 {
		t.Errorf("binary opcode count = %d, want 10", binary)
	}
	if !OpBranch.IsJump() || OpDeclareLabel.IsJump() {
		t.Error("only BRANCH should be a jump")
	}
	if !OpReadFloat.ReadsInput() || !OpReadString.ReadsInput() || OpPrintFloat.ReadsInput() {
		t.Error("ReadsInput misclassified")
	}
}
