package object

import "fmt"

// Opcode is a single bytecode instruction tag. It lives in package object,
// not in the compiler package, because both the compiler (which emits it)
// and the interpreter (which decodes it) need the same vocabulary, and
// keeping it here keeps compiler and interp each depending only on object
// rather than on each other.
//
// Six families -- Constant, VarRef, VarSet, Call, StackRef, StackSet -- are
// each laid out as a contiguous block of 8 opcodes: the base opcode plus 0
// through 5 is the operand inlined into the opcode byte (Op0..Op5), base+6
// (OpN) carries a following 1-byte operand, and base+7 (OpN2) carries a
// following 2-byte big-endian operand. This lets the encoder and decoder
// compute the family and form from a single opcode byte with simple
// arithmetic instead of a lookup table.
type Opcode byte

const (
	OpConstantBase Opcode = 8 * iota
	OpVarRefBase
	OpVarSetBase
	OpCallBase
	OpStackRefBase
	OpStackSetBase

	opParameterizedEnd // sentinel: opcodes below this are parameterized families
)

const (
	OpDiscard Opcode = opParameterizedEnd + iota
	OpDiscardN
	OpDiscardNKeepTOS
	OpDuplicate
	OpRet
	OpJump
	OpJumpNil
	OpJumpNotNil
	OpJumpNilElsePop
	OpJumpNotNilElsePop
)

// formOffsetN and formOffsetN2 are the within-family offsets of the OpN and
// OpN2 encodings; offsets 0..5 are the inlined-immediate Op0..Op5 forms.
const (
	formOffsetN  = 6
	formOffsetN2 = 7
)

// IsParameterized reports whether op belongs to one of the six
// Constant/VarRef/VarSet/Call/StackRef/StackSet families.
func IsParameterized(op Opcode) bool { return op < opParameterizedEnd }

// IsJump reports whether op is one of the jump opcodes (all of which carry
// a 2-byte big-endian signed displacement).
func IsJump(op Opcode) bool {
	switch op {
	case OpJump, OpJumpNil, OpJumpNotNil, OpJumpNilElsePop, OpJumpNotNilElsePop:
		return true
	}
	return false
}

// EncodeParam appends the encoding of a parameterized opcode with immediate
// operand n to code, returning the extended slice. n must be >= 0; values
// above 0xffff are rejected by the caller before this is reached (as either
// ConstOverflowError or StackSizeOverflowError depending on family).
func EncodeParam(code []byte, base Opcode, n int) []byte {
	switch {
	case n <= 5:
		return append(code, byte(base)+byte(n))
	case n <= 0xff:
		return append(code, byte(base)+formOffsetN, byte(n))
	default:
		return append(code, byte(base)+formOffsetN2, byte(n>>8), byte(n))
	}
}

// EncodedSize returns the number of bytes EncodeParam would append for n.
func EncodedSize(n int) int {
	switch {
	case n <= 5:
		return 1
	case n <= 0xff:
		return 2
	default:
		return 3
	}
}

// DecodeParam decodes the parameterized instruction at code[ip], returning
// its family base, its immediate operand, and the number of bytes it
// occupies (including the opcode byte itself).
func DecodeParam(code []byte, ip int) (base Opcode, n int, size int) {
	op := Opcode(code[ip])
	base = op - (op % 8)
	offset := op - base
	switch {
	case offset <= 5:
		return base, int(offset), 1
	case offset == formOffsetN:
		return base, int(code[ip+1]), 2
	default:
		return base, int(code[ip+1])<<8 | int(code[ip+2]), 3
	}
}

var opcodeNames = map[Opcode]string{
	OpConstantBase: "CONSTANT", OpVarRefBase: "VARREF", OpVarSetBase: "VARSET",
	OpCallBase: "CALL", OpStackRefBase: "STACKREF", OpStackSetBase: "STACKSET",
	OpDiscard: "DISCARD", OpDiscardN: "DISCARDN", OpDiscardNKeepTOS: "DISCARDN-KEEP-TOS",
	OpDuplicate: "DUPLICATE", OpRet: "RET", OpJump: "JUMP", OpJumpNil: "JUMP-NIL",
	OpJumpNotNil: "JUMP-NOT-NIL", OpJumpNilElsePop: "JUMP-NIL-ELSE-POP",
	OpJumpNotNilElsePop: "JUMP-NOT-NIL-ELSE-POP",
}

// Name returns the mnemonic for op's family (for parameterized opcodes,
// the name of the base, independent of which of the Op0..Op5/OpN/OpN2 forms
// op actually is).
func (op Opcode) Name() string {
	if IsParameterized(op) {
		return opcodeNames[op-(op%8)]
	}
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("ILLEGAL(%d)", byte(op))
}
