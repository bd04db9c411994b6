package bytecode

import (
	"strings"
	"testing"
)

func TestDisassembleEmpty(t *testing.T) {
	output := Decode("").Disassemble()

	if !strings.Contains(output, "Magic Number program: 0 instructions") {
		t.Errorf("Disassembly missing header:\n%s", output)
	}
}

func TestDisassembleSimple(t *testing.T) {
	output := Decode("0011007669" + "0021061123456" + "016" + "005").Disassemble()

	for _, want := range []string{"PUSH_INTEGER", "-7669", "PUSH_FLOAT", "-0.123456", "ADD", "PRINT_FLOAT"} {
		if !strings.Contains(output, want) {
			t.Errorf("Disassembly missing %q:\n%s", want, output)
		}
	}
}

func TestDisassembleWithName(t *testing.T) {
	output := Decode("005").DisassembleWithName("hello.magic")
	if !strings.HasPrefix(output, "; === hello.magic ===\n") {
		t.Errorf("missing name header:\n%s", output)
	}
}

func TestDisassembleLabels(t *testing.T) {
	output := Decode("007000042" + "008000042" + "008000043").Disassemble()

	if !strings.Contains(output, "Labels:") {
		t.Error("Missing Labels section")
	}
	if !strings.Contains(output, "@000042 -> 0000") {
		t.Errorf("Missing label entry:\n%s", output)
	}
	if !strings.Contains(output, "0001  008000042") || !strings.Contains(output, "; -> 0000") {
		t.Errorf("Missing resolved branch:\n%s", output)
	}
	if !strings.Contains(output, "; unresolved") {
		t.Errorf("Missing unresolved branch:\n%s", output)
	}
}

func TestDisassembleInstructionOutOfRange(t *testing.T) {
	p := Decode("005")
	if got := p.DisassembleInstruction(5, nil); got != "<end of program>" {
		t.Errorf("DisassembleInstruction(5) = %q", got)
	}
	if got := p.DisassembleInstruction(0, nil); !strings.HasPrefix(got, "005") || !strings.HasSuffix(got, "PRINT_FLOAT") {
		t.Errorf("DisassembleInstruction(0) = %q", got)
	}
}
