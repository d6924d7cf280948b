package compiler

import (
	"fmt"
	"strings"

	"github.com/nenuphar/elisp/object"
)

// Disassemble renders code as one mnemonic per line, adapted from the
// teacher's lang/compiler/asm.go serializer. Unlike the teacher's Asm/Dasm,
// this is one-directional: the core never parses a text assembly format
// back into bytecode, because the text reader is out of scope (the
// compiler only ever receives object graphs built directly by callers or
// tests). This is purely a diagnostic/golden-test rendering.
func Disassemble(code []byte, constants []object.Value) string {
	var b strings.Builder
	ip := 0
	for ip < len(code) {
		op := object.Opcode(code[ip])
		switch {
		case object.IsParameterized(op):
			base, n, size := object.DecodeParam(code, ip)
			fmt.Fprintf(&b, "%04d  %-24s %d", ip, base.Name(), n)
			if isConstFamily(base) && n < len(constants) {
				fmt.Fprintf(&b, "  ; %s", constants[n].String())
			}
			b.WriteByte('\n')
			ip += size
		case object.IsJump(op):
			offset := int16(code[ip+1])<<8 | int16(code[ip+2])
			target := ip + 3 + int(offset)
			fmt.Fprintf(&b, "%04d  %-24s %d  ; -> %04d\n", ip, op.Name(), offset, target)
			ip += 3
		case op == object.OpDiscardN || op == object.OpDiscardNKeepTOS:
			fmt.Fprintf(&b, "%04d  %-24s %d\n", ip, op.Name(), code[ip+1])
			ip += 2
		default:
			fmt.Fprintf(&b, "%04d  %s\n", ip, op.Name())
			ip++
		}
	}
	return b.String()
}

func isConstFamily(base object.Opcode) bool {
	switch base {
	case object.OpConstantBase, object.OpVarRefBase, object.OpVarSetBase:
		return true
	}
	return false
}
