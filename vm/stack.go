package vm

// Stack is the operand stack. The zero value is an empty stack ready to use.
type Stack struct {
	values []float64
}

// Push places v on top of the stack.
func (s *Stack) Push(v float64) {
	s.values = append(s.values, v)
}

// Pop removes and returns the top value. It reports false, leaving the
// stack untouched, when the stack is empty.
func (s *Stack) Pop() (float64, bool) {
	n := len(s.values)
	if n == 0 {
		return 0, false
	}
	v := s.values[n-1]
	s.values = s.values[:n-1]
	return v, true
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (float64, bool) {
	n := len(s.values)
	if n == 0 {
		return 0, false
	}
	return s.values[n-1], true
}

// Len returns the stack depth.
func (s *Stack) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of the stack, bottom first.
func (s *Stack) Snapshot() []float64 {
	cp := make([]float64, len(s.values))
	copy(cp, s.values)
	return cp
}
