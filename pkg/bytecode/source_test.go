package bytecode

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStripSource(t *testing.T) {
	text := "# push a negative number\n001 1 007669\nprint: 005\n"
	src := StripSource(text)

	if src.Digits != "0011007669005" {
		t.Errorf("Digits = %q, want %q", src.Digits, "0011007669005")
	}
	if len(src.Positions) != len(src.Digits) {
		t.Fatalf("len(Positions) = %d, want %d", len(src.Positions), len(src.Digits))
	}
}

func TestStripSourcePositions(t *testing.T) {
	src := StripSource("a1\n 23\n\n4")

	want := []Position{{0, 1}, {1, 1}, {1, 2}, {3, 0}}
	if src.Digits != "1234" {
		t.Fatalf("Digits = %q, want %q", src.Digits, "1234")
	}
	for i, p := range want {
		if src.Positions[i] != p {
			t.Errorf("Positions[%d] = %+v, want %+v", i, src.Positions[i], p)
		}
	}

	if got := src.PositionOf(2); got != (Position{1, 2}) {
		t.Errorf("PositionOf(2) = %+v", got)
	}
	if got := src.PositionOf(10); got != (Position{3, 1}) {
		t.Errorf("PositionOf past end = %+v, want {3 1}", got)
	}

	if off, ok := src.OffsetAt(Position{1, 2}); !ok || off != 2 {
		t.Errorf("OffsetAt({1 2}) = (%d, %v), want (2, true)", off, ok)
	}
	if _, ok := src.OffsetAt(Position{1, 0}); ok {
		t.Error("OffsetAt on a space should fail")
	}
}

func TestStripSourceColumnsAreUTF16(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Position
	}{
		{"ascii", "ab1", Position{0, 2}},
		{"two-byte", "\u00e9\u00e91", Position{0, 2}},
		{"three-byte", "\u2192 1", Position{0, 2}},
		{"astral", "\U0001F600 1", Position{0, 3}},
		{"next line resets", "\U0001F600\n1", Position{1, 0}},
		{"invalid byte", "\xff1", Position{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := StripSource(tt.text)
			if src.Digits != "1" {
				t.Fatalf("Digits = %q, want %q", src.Digits, "1")
			}
			if src.Positions[0] != tt.want {
				t.Errorf("position = %+v, want %+v", src.Positions[0], tt.want)
			}
		})
	}
}

func TestStripSourceEmpty(t *testing.T) {
	src := StripSource("no digits here!")
	if src.Digits != "" {
		t.Errorf("Digits = %q, want empty", src.Digits)
	}
	if got := src.PositionOf(0); got != (Position{}) {
		t.Errorf("PositionOf on empty source = %+v", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.magic")
	if err := os.WriteFile(path, []byte("001 0 000000\n005 # print\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Digits != "0010000000005" {
		t.Errorf("Digits = %q, want %q", src.Digits, "0010000000005")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.magic")); err == nil {
		t.Error("LoadFile on a missing file should fail")
	}
}
