package bytecode

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// Position is a zero-based line and column within source text. Columns count
// UTF-16 code units, as editors do.
type Position struct {
	Line   int
	Column int
}

// Source is program text reduced to its decimal digits.
type Source struct {
	Digits    string     // Every decimal digit of the text, in order
	Positions []Position // Positions[i] locates Digits[i] in the original text
}

// StripSource discards every character that is not an ASCII decimal digit
// and remembers where each kept digit came from.
func StripSource(text string) Source {
	digits := make([]byte, 0, len(text))
	positions := make([]Position, 0, len(text))

	line, col := 0, 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
			positions = append(positions, Position{Line: line, Column: col})
		}
		if r == '\n' {
			line++
			col = 0
			continue
		}
		// Characters outside the BMP take a surrogate pair.
		if r > 0xFFFF && r <= utf8.MaxRune {
			col += 2
		} else {
			col++
		}
	}

	return Source{Digits: string(digits), Positions: positions}
}

// PositionOf returns the source position of the digit at offset, clamping
// offsets past the end to the position just after the last digit.
func (s Source) PositionOf(offset int) Position {
	if len(s.Positions) == 0 {
		return Position{}
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.Positions) {
		last := s.Positions[len(s.Positions)-1]
		return Position{Line: last.Line, Column: last.Column + 1}
	}
	return s.Positions[offset]
}

// OffsetAt returns the digit offset located at pos, or false if pos is not
// on a digit.
func (s Source) OffsetAt(pos Position) (int, bool) {
	// Positions are sorted, so binary search on (line, column).
	lo, hi := 0, len(s.Positions)
	for lo < hi {
		mid := (lo + hi) / 2
		p := s.Positions[mid]
		if p.Line < pos.Line || (p.Line == pos.Line && p.Column < pos.Column) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.Positions) && s.Positions[lo] == pos {
		return lo, true
	}
	return 0, false
}

// LoadFile reads a program file and strips it to digits.
func LoadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return StripSource(string(data)), nil
}
