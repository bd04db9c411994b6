package vm

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/daniel-ostrowski/magic-number-executer/pkg/bytecode"
)

// maxCodePoint is the largest value PRINT_CHAR will write.
const maxCodePoint = 0x10FFFF

// execute runs one instruction and returns the next instruction pointer.
// Every catalog opcode has exactly one case.
func (m *Machine) execute(ins bytecode.Instruction) (int, Effect, error) {
	next := m.ip + 1

	switch ins.Op {
	// ============ Constants ============
	case bytecode.OpPushInteger:
		m.stack.Push(ins.IntegerOperand())
		return next, EffectApplied, nil

	case bytecode.OpPushFloat:
		m.stack.Push(ins.FloatOperand())
		return next, EffectApplied, nil

	// ============ Input / output ============
	case bytecode.OpReadFloat:
		effect, err := m.readFloat()
		return next, effect, err

	case bytecode.OpReadString:
		effect, err := m.readString()
		return next, effect, err

	case bytecode.OpPrintFloat:
		return next, m.printFloat(), nil

	case bytecode.OpPrintChar:
		return next, m.printChar(), nil

	// ============ Control flow ============
	case bytecode.OpDeclareLabel:
		return next, EffectLabel, nil

	case bytecode.OpBranch:
		target, effect := m.branch(ins)
		if effect == EffectJumped {
			return target, effect, nil
		}
		return next, effect, nil

	// ============ Logic and comparison ============
	case bytecode.OpToBoolean:
		return next, m.unary(func(x float64) float64 { return Bool(IsTrue(x)) }), nil

	case bytecode.OpNot:
		return next, m.unary(func(x float64) float64 { return Bool(!IsTrue(x)) }), nil

	case bytecode.OpAnd:
		return next, m.binary(func(a, b float64) (float64, bool) { return Bool(IsTrue(a) && IsTrue(b)), true }), nil

	case bytecode.OpOr:
		return next, m.binary(func(a, b float64) (float64, bool) { return Bool(IsTrue(a) || IsTrue(b)), true }), nil

	case bytecode.OpLessThan:
		return next, m.binary(func(a, b float64) (float64, bool) { return Bool(a < b), true }), nil

	case bytecode.OpGreaterThan:
		return next, m.binary(func(a, b float64) (float64, bool) { return Bool(a > b), true }), nil

	case bytecode.OpEqual:
		return next, m.binary(func(a, b float64) (float64, bool) { return Bool(ApproxEqual(a, b)), true }), nil

	// ============ Arithmetic ============
	case bytecode.OpAdd:
		return next, m.binary(func(a, b float64) (float64, bool) { return a + b, true }), nil

	case bytecode.OpSubtract:
		return next, m.binary(func(a, b float64) (float64, bool) { return a - b, true }), nil

	case bytecode.OpMultiply:
		return next, m.binary(func(a, b float64) (float64, bool) { return a * b, true }), nil

	case bytecode.OpDivide:
		return next, m.binary(divide), nil

	case bytecode.OpRemainder:
		return next, m.binary(remainder), nil

	// ============ Stack manipulation ============
	case bytecode.OpPop:
		if _, ok := m.stack.Pop(); !ok {
			return next, EffectUnderflow, nil
		}
		return next, EffectApplied, nil

	case bytecode.OpDuplicate:
		x, ok := m.stack.Pop()
		if !ok {
			return next, EffectUnderflow, nil
		}
		m.stack.Push(x)
		m.stack.Push(x)
		return next, EffectApplied, nil
	}

	return next, EffectNone, nil
}

// unary pops x and pushes f(x).
func (m *Machine) unary(f func(x float64) float64) Effect {
	x, ok := m.stack.Pop()
	if !ok {
		return EffectUnderflow
	}
	m.stack.Push(f(x))
	return EffectApplied
}

// binary pops a (the top) and then b, and pushes f(a, b). If the second pop
// fails, a is already gone and stays gone. If f reports failure, both
// operands are discarded and nothing is pushed.
func (m *Machine) binary(f func(a, b float64) (float64, bool)) Effect {
	a, ok := m.stack.Pop()
	if !ok {
		return EffectUnderflow
	}
	b, ok := m.stack.Pop()
	if !ok {
		return EffectUnderflow
	}
	r, ok := f(a, b)
	if !ok {
		log.Debugf("arithmetic fault at statement %d: operands %s, %s dropped", m.ip, FormatFloat(a), FormatFloat(b))
		return EffectFault
	}
	m.stack.Push(r)
	return EffectApplied
}

// divide computes a / b. Division by zero, including 0/0, is undefined.
func divide(a, b float64) (float64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

// remainder truncates both operands to integers and returns the modulus
// with the sign of the divisor. It is undefined for a zero divisor or a
// non-finite operand.
func remainder(a, b float64) (float64, bool) {
	ta, tb := math.Trunc(a), math.Trunc(b)
	if tb == 0 || math.IsNaN(ta) || math.IsInf(ta, 0) || math.IsNaN(tb) || math.IsInf(tb, 0) {
		return 0, false
	}
	r := math.Mod(ta, tb)
	if r != 0 && (r < 0) != (tb < 0) {
		r += tb
	}
	if r == 0 {
		r = 0 // drop the sign of a negative zero
	}
	return r, true
}

// branch pops the condition and resolves the instruction's label. It
// returns EffectJumped with the target statement number, or an effect
// explaining why control falls through.
func (m *Machine) branch(ins bytecode.Instruction) (int, Effect) {
	cond, ok := m.stack.Pop()
	if !ok {
		return 0, EffectUnderflow
	}
	if !IsTrue(cond) {
		return 0, EffectFellThrough
	}
	target, ok := m.labels.Resolve(ins.LabelOperand())
	if !ok {
		log.Debugf("statement %d: branch to undeclared label %s", m.ip, ins.LabelOperand())
		return 0, EffectUnresolved
	}
	return target, EffectJumped
}

// readFloat reads a line and pushes its value followed by TRUE, or only
// FALSE when the line is missing or does not parse.
func (m *Machine) readFloat() (Effect, error) {
	line, err := m.in.NextLine()
	if err != nil {
		if errors.Is(err, ErrInputExhausted) {
			return EffectNone, err
		}
		m.stack.Push(False)
		return EffectNoInput, nil
	}

	v, ok := parseFloat(line)
	if !ok {
		m.stack.Push(False)
		return EffectNoInput, nil
	}
	m.stack.Push(v)
	m.stack.Push(True)
	return EffectApplied, nil
}

// parseFloat accepts what Python's float() accepts: surrounding whitespace,
// one optional sign, decimal digits with single underscores between digits,
// and inf, infinity or nan in any case. Hex literals are rejected. Values too
// large for float64 become infinities.
func parseFloat(s string) (float64, bool) {
	body := strings.TrimSpace(s)
	neg := false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}

	var v float64
	switch strings.ToLower(body) {
	case "inf", "infinity":
		v = math.Inf(1)
	case "nan":
		v = math.NaN()
	default:
		lit, ok := decimalLiteral(body)
		if !ok {
			return 0, false
		}
		var err error
		v, err = strconv.ParseFloat(lit, 64)
		if err != nil {
			var numErr *strconv.NumError
			if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
				return 0, false
			}
		}
	}
	if neg {
		v = -v
	}
	return v, true
}

// decimalLiteral checks the characters of an unsigned decimal literal and
// removes its underscores. strconv.ParseFloat checks the rest of the shape.
func decimalLiteral(s string) (string, bool) {
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c), c == '.', c == 'e', c == 'E':
			sb.WriteByte(c)
		case (c == '+' || c == '-') && i > 0 && (s[i-1] == 'e' || s[i-1] == 'E'):
			sb.WriteByte(c)
		case c == '_' && i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]):
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// readString reads a line and pushes its code points last to first, so the
// first character ends up on top, then pushes TRUE. A missing line pushes
// only FALSE.
func (m *Machine) readString() (Effect, error) {
	line, err := m.in.NextLine()
	if err != nil {
		if errors.Is(err, ErrInputExhausted) {
			return EffectNone, err
		}
		m.stack.Push(False)
		return EffectNoInput, nil
	}

	runes := []rune(line)
	for i := len(runes) - 1; i >= 0; i-- {
		m.stack.Push(float64(runes[i]))
	}
	m.stack.Push(True)
	return EffectApplied, nil
}

// printFloat pops a value and writes its text form.
func (m *Machine) printFloat() Effect {
	v, ok := m.stack.Pop()
	if !ok {
		return EffectUnderflow
	}
	m.write(FormatFloat(v))
	return EffectApplied
}

// printChar pops a value, truncates it and writes the character with that
// code point. Values outside [0, 0x10FFFF] are consumed without output.
func (m *Machine) printChar() Effect {
	v, ok := m.stack.Pop()
	if !ok {
		return EffectUnderflow
	}
	code := math.Trunc(v)
	if math.IsNaN(code) || code < 0 || code > maxCodePoint {
		return EffectFault
	}
	// Surrogate halves are not encodable and come out as U+FFFD.
	m.write(string(rune(int32(code))))
	return EffectApplied
}
