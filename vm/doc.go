// Package vm implements the Magic Number stack machine.
//
// This package contains:
//   - The operand stack of float64 values
//   - Tolerance-based truthiness and equality (epsilon 0.0001)
//   - The I/O adapter: live or scripted line input, program output
//   - One handler per opcode, none of which can fail
//   - The fetch / dispatch / advance loop (Machine)
//
// A Machine never returns an error because of what a program does. Stack
// underflow, division by zero, unprintable characters, unreadable input and
// branches to undeclared labels all degrade to local no-ops. The one
// exception is a scripted input queue running dry, which reports
// ErrInputExhausted.
package vm
