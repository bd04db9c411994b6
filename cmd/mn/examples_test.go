package main

import (
	"path/filepath"
	"testing"
)

func TestExamples(t *testing.T) {
	tests := []struct {
		file  string
		stdin string
		want  string
	}{
		{"hello_world.magic", "", "Hello, world!\n"},
		{"countdown.magic", "", "10.0\n9.0\n8.0\n7.0\n6.0\n5.0\n4.0\n3.0\n2.0\n1.0\n"},
		{"echo.magic", "¯\\_(ツ)_/¯\n", "¯\\_(ツ)_/¯\n"},
		{"echo.magic", "", "\n"},
		{"add.magic", "1.5\n2.25\n", "3.75\n"},
		{"add.magic", "-4\n1e3\n", "996.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join("..", "..", "examples", tt.file)
			code, out, errOut := runCLI(t, tt.stdin, path)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %q", code, errOut)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}
