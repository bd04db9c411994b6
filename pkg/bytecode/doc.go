// Package bytecode turns Magic Number program text into an executable
// instruction sequence.
//
// A Magic Number program is an undifferentiated stream of decimal digits.
// Every digit string is a valid program: the decoder segments the stream
// into fixed-width instructions and silently absorbs anything it does not
// recognize.
//
// # Architecture Overview
//
//   - Opcodes: the instruction catalog. Each 3-digit opcode has a name and a
//     fixed total instruction length (10 for PUSH_INTEGER, 13 for PUSH_FLOAT,
//     9 for DECLARE_LABEL and BRANCH, 3 for everything else).
//
//   - Decoder: reads a candidate opcode, and either consumes exactly the
//     opcode's instruction length or skips the unrecognized digits. A
//     recognized opcode whose body runs past the end of the stream is skipped
//     too, so no partial instruction ever reaches the interpreter.
//
//   - Program and LabelTable: the decoded sequence indexed by statement
//     number, and the label -> statement map built by one forward pass over
//     it. Later declarations of a label win.
//
//   - Source: strips non-digit characters and keeps each digit's position in
//     the original text for diagnostics.
//
// # Encoding
//
// Operand fields are fixed-width decimal. Sign digits use 0 for positive and
// any other digit for negative:
//
//	001 S DDDDDD          push integer
//	002 S EE S DDDDDD     push float, mantissa * 10^exponent
//	007 LLLLLL            declare label
//	008 LLLLLL            branch to label if popped value is true
package bytecode
