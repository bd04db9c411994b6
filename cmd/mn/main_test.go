package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daniel-ostrowski/magic-number-executer/trace"
)

const helloProgram = "# print Hi\n" +
	"001 0000072 006\n" +
	"001 0000105 006\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunProgram(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hi.magic", helloProgram)
	code, out, errOut := runCLI(t, "", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "Hi" {
		t.Errorf("stdout = %q, want %q", out, "Hi")
	}
}

func TestRunReadsStdin(t *testing.T) {
	// read a float, drop TRUE, double it, print
	path := writeFile(t, t.TempDir(), "double.magic", "003 020 021 016 005")
	code, out, _ := runCLI(t, "2.5\n", path)
	if code != 0 || out != "5.0" {
		t.Errorf("run = %d, %q; want 0, 5.0", code, out)
	}

	// End of input pushes FALSE; the program keeps going.
	code, out, _ = runCLI(t, "", path)
	if code != 0 || out != "" {
		t.Errorf("run on empty stdin = %d, %q", code, out)
	}
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"too many", []string{"a.magic", "b.magic"}},
		{"disasm without file", []string{"disasm"}},
		{"lsp with file", []string{"lsp", "x"}},
		{"unknown flag", []string{"-nope", "a.magic"}},
	}
	for _, tt := range tests {
		code, out, errOut := runCLI(t, "", tt.args...)
		if code != 2 {
			t.Errorf("%s: exit code = %d, want 2", tt.name, code)
		}
		if out != "" {
			t.Errorf("%s: stdout = %q", tt.name, out)
		}
		if !strings.Contains(errOut, "Usage: mn") {
			t.Errorf("%s: stderr missing usage: %q", tt.name, errOut)
		}
	}
}

func TestHelp(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-h")
	if code != 0 || !strings.Contains(errOut, "Usage: mn") {
		t.Errorf("-h = %d, %q", code, errOut)
	}
}

func TestMissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", filepath.Join(t.TempDir(), "missing.magic"))
	if code != 1 || !strings.Contains(errOut, "cannot read") {
		t.Errorf("run = %d, %q", code, errOut)
	}
}

func TestDebugTrace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hi.magic", helloProgram)
	code, out, errOut := runCLI(t, "", "-debug", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "Hi" {
		t.Errorf("stdout = %q", out)
	}
	want := "0010000072, [72.0]\n006, []\n0010000105, [105.0]\n006, []\nOutput:\nHi\n"
	if !strings.HasSuffix(errOut, want) {
		t.Errorf("stderr =\n%s\nwant suffix\n%s", errOut, want)
	}
}

func TestTraceOut(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hi.magic", helloProgram)
	tracePath := filepath.Join(dir, "hi.trace")

	code, _, errOut := runCLI(t, "", "-trace-out", tracePath, path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if strings.Contains(errOut, "Output:") {
		t.Error("text trace printed without -debug")
	}

	tr, err := trace.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tr.Output != "Hi" || len(tr.Entries) != 4 {
		t.Errorf("trace = %+v", tr)
	}
	if tr.Program != "0010000072006"+"0010000105006" {
		t.Errorf("program = %q", tr.Program)
	}
}

func TestMaxSteps(t *testing.T) {
	path := writeFile(t, t.TempDir(), "loop.magic", "007000001 0010000001 008000001")
	code, _, errOut := runCLI(t, "", "-max-steps", "10", path)
	if code != 1 || !strings.Contains(errOut, "step limit reached") {
		t.Errorf("run = %d, %q", code, errOut)
	}

	code, _, _ = runCLI(t, "", "-max-steps", "-1", path)
	if code != 2 {
		t.Errorf("negative -max-steps exit code = %d, want 2", code)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	program := writeFile(t, dir, "echo.magic", "004 020 006 006 006")
	writeFile(t, dir, "magicnum.toml", `
[run]
max-steps = 100

[input]
lines = ["abc"]
`)

	// Found by searching upward from the program.
	code, out, errOut := runCLI(t, "ignored stdin\n", program)
	if code != 0 || out != "abc" {
		t.Errorf("run = %d, %q, %q", code, out, errOut)
	}

	// Flags override file values.
	code, _, errOut = runCLI(t, "", "-max-steps", "2", program)
	if code != 1 || !strings.Contains(errOut, "step limit") {
		t.Errorf("override = %d, %q", code, errOut)
	}
}

func TestVerboseLogReachesFile(t *testing.T) {
	dir := t.TempDir()
	program := writeFile(t, dir, "hi.magic", helloProgram)
	writeFile(t, dir, "magicnum.toml", "[log]\nfile = \"mn.log\"\n")

	code, out, errOut := runCLI(t, "", "-v", program)
	if code != 0 || out != "Hi" {
		t.Fatalf("run = %d, %q, %q", code, out, errOut)
	}
	flushLog()

	data, err := os.ReadFile(filepath.Join(dir, "mn.log"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"session start", "session end"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	program := writeFile(t, dir, "read.magic", "003 005 005")
	cfg := writeFile(t, t.TempDir(), "ci.toml", "[run]\ndebug = true\n[input]\nlines = [\"7\"]\n")

	code, out, errOut := runCLI(t, "", "-config", cfg, program)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "1.07.0" {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(errOut, "003, [7.0, 1.0]") {
		t.Errorf("debug trace missing: %q", errOut)
	}

	code, _, errOut = runCLI(t, "", "-config", filepath.Join(dir, "missing.toml"), program)
	if code != 1 || !strings.Contains(errOut, "cannot read") {
		t.Errorf("missing config = %d, %q", code, errOut)
	}
}

func TestScriptedInputExhausted(t *testing.T) {
	dir := t.TempDir()
	program := writeFile(t, dir, "two.magic", "003 003")
	cfg := writeFile(t, dir, "one.toml", "[input]\nlines = [\"1\"]\n")

	code, _, errOut := runCLI(t, "", "-config", cfg, program)
	if code != 1 || !strings.Contains(errOut, "scripted input exhausted") {
		t.Errorf("run = %d, %q", code, errOut)
	}
}

func TestDisasm(t *testing.T) {
	path := writeFile(t, t.TempDir(), "loop.magic", "007000001 0010000001 008000001 99")
	code, out, errOut := runCLI(t, "", "disasm", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	for _, want := range []string{"; === loop.magic ===", "3 instructions", "@000001 -> 0000", "BRANCH"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}

type bufferedWriter struct {
	bytes.Buffer
	flushes int
}

func (w *bufferedWriter) Flush() error {
	w.flushes++
	return nil
}

func TestPromptFlushedBeforeRead(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prompt.magic", "0010000063 006 003")
	var stdout bufferedWriter
	var stderr bytes.Buffer
	code := run([]string{path}, strings.NewReader("1\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
	}
	if stdout.flushes == 0 {
		t.Error("output was not flushed before reading input")
	}
}
