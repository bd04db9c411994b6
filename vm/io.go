package vm

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrInputExhausted is returned by a scripted Input with no lines left. It
// is the only program-triggered condition that stops a run with an error:
// it means a test supplied too little input, not that the program is wrong.
var ErrInputExhausted = errors.New("scripted input exhausted")

// Input supplies lines to READ_FLOAT and READ_STRING.
type Input interface {
	// NextLine returns the next line without its line terminator. A live
	// source returns io.EOF (or another error) when no line is available; a
	// scripted source returns ErrInputExhausted.
	NextLine() (string, error)
}

// LineReader reads lines from a live source such as standard input.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// NextLine blocks until a full line or end of input. A final line without a
// trailing newline is returned normally; io.EOF is only reported when
// nothing at all was read.
func (lr *LineReader) NextLine() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// ScriptedInput serves a fixed queue of lines, in order.
type ScriptedInput struct {
	lines []string
	next  int
}

// NewScriptedInput creates a queue holding lines.
func NewScriptedInput(lines ...string) *ScriptedInput {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &ScriptedInput{lines: cp}
}

// NextLine pops the next queued line.
func (s *ScriptedInput) NextLine() (string, error) {
	if s.next >= len(s.lines) {
		return "", ErrInputExhausted
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

// Remaining returns the number of lines not yet consumed.
func (s *ScriptedInput) Remaining() int {
	return len(s.lines) - s.next
}
