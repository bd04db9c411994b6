package bytecode

import "fmt"

// SkipReason classifies digits the decoder absorbed without emitting an
// instruction.
type SkipReason uint8

const (
	// SkipUnknownOpcode marks three digits that name no catalog entry.
	SkipUnknownOpcode SkipReason = iota + 1

	// SkipShortOpcode marks one or two trailing digits.
	SkipShortOpcode

	// SkipTruncated marks a recognized opcode whose body runs past the end.
	SkipTruncated
)

// String returns a short name for the reason.
func (r SkipReason) String() string {
	switch r {
	case SkipUnknownOpcode:
		return "unknown-opcode"
	case SkipShortOpcode:
		return "short-opcode"
	case SkipTruncated:
		return "truncated"
	default:
		return fmt.Sprintf("SkipReason(%d)", r)
	}
}

// Skip records a run of digits that decoded to nothing.
type Skip struct {
	Offset int        // Position of the first skipped digit
	Digits string     // The skipped digits
	Reason SkipReason // Why the digits were skipped
}

// Decode segments a digit string into a Program. It is total: every input,
// including the empty string, yields a Program. Characters are expected to be
// decimal digits; use StripSource to clean arbitrary text first.
func Decode(digits string) *Program {
	prog, _ := DecodeReport(digits)
	return prog
}

// DecodeReport is Decode plus a record of every skipped digit run.
func DecodeReport(digits string) (*Program, []Skip) {
	var (
		instructions []Instruction
		skips        []Skip
	)

	cursor := 0
	for cursor < len(digits) {
		end := cursor + OpcodeDigits
		if end > len(digits) {
			skips = append(skips, Skip{Offset: cursor, Digits: digits[cursor:], Reason: SkipShortOpcode})
			break
		}

		op, ok := LookupOpcode(digits[cursor:end])
		if !ok {
			skips = append(skips, Skip{Offset: cursor, Digits: digits[cursor:end], Reason: SkipUnknownOpcode})
			cursor = end
			continue
		}

		end = cursor + op.InstructionLen()
		if end > len(digits) {
			skips = append(skips, Skip{Offset: cursor, Digits: digits[cursor:], Reason: SkipTruncated})
			break
		}

		raw := digits[cursor:end]
		instructions = append(instructions, Instruction{
			Op:      op,
			Payload: raw[OpcodeDigits:],
			Raw:     raw,
			Offset:  cursor,
		})
		cursor = end
	}

	return NewProgram(instructions), skips
}
