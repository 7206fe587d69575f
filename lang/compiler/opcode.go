package compiler

import "fmt"

// Opcode identifies a single bytecode instruction. Every opcode is one byte;
// its operand, if any, is encoded as declared in opcodeInfo.
type Opcode uint8

//nolint:revive
const (
	CONSTANT Opcode = iota // CONSTANT<idx>      - push constants[idx]
	TRUE                   // TRUE                - push Bool(true)
	FALSE                  // FALSE               - push Bool(false)
	PRINT                  // PRINT               pop and print/capture
	POP                    // POP                 pop, discard

	ADD // ADD    pop b,a; push a+b
	SUB // SUB    pop b,a; push a-b
	MUL // MUL    pop b,a; push a*b
	DIV // DIV    pop b,a; push a/b

	NOT // NOT    pop v; push !truthy(v)

	EQUAL         // EQUAL
	NOT_EQUAL     // NOT_EQUAL
	LESS          // LESS
	LESS_EQUAL    // LESS_EQUAL
	GREATER       // GREATER
	GREATER_EQUAL // GREATER_EQUAL

	DEFINE_GLOBAL // DEFINE_GLOBAL<idx>  peek; globals[name]=top (no pop)
	SET_GLOBAL    // SET_GLOBAL<idx>     peek; globals[name]=top, fails if undefined (no pop)
	GET_GLOBAL    // GET_GLOBAL<idx>     push globals[name], fails if undefined

	SET_LOCAL // SET_LOCAL<slot>     peek; stack[slot]=top (no pop)
	GET_LOCAL // GET_LOCAL<slot>     push stack[slot]

	JUMP_IF_FALSE // JUMP_IF_FALSE<off16> if !truthy(peek), ip += off
	JUMP          // JUMP<off16>          ip += off
	LOOP          // LOOP<off16>          ip -= off

	opcodeMax
)

// operandWidth is the number of operand bytes following each opcode: 0, 1
// (constant index or local slot), or 2 (big-endian jump offset).
var operandWidth = [opcodeMax]int{
	CONSTANT:      1,
	TRUE:          0,
	FALSE:         0,
	PRINT:         0,
	POP:           0,
	ADD:           0,
	SUB:           0,
	MUL:           0,
	DIV:           0,
	NOT:           0,
	EQUAL:         0,
	NOT_EQUAL:     0,
	LESS:          0,
	LESS_EQUAL:    0,
	GREATER:       0,
	GREATER_EQUAL: 0,
	DEFINE_GLOBAL: 1,
	SET_GLOBAL:    1,
	GET_GLOBAL:    1,
	SET_LOCAL:     1,
	GET_LOCAL:     1,
	JUMP_IF_FALSE: 2,
	JUMP:          2,
	LOOP:          2,
}

var opcodeNames = [opcodeMax]string{
	CONSTANT:      "CONSTANT",
	TRUE:          "TRUE",
	FALSE:         "FALSE",
	PRINT:         "PRINT",
	POP:           "POP",
	ADD:           "ADD",
	SUB:           "SUB",
	MUL:           "MUL",
	DIV:           "DIV",
	NOT:           "NOT",
	EQUAL:         "EQUAL",
	NOT_EQUAL:     "NOT_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	DEFINE_GLOBAL: "DEFINE_GLOBAL",
	SET_GLOBAL:    "SET_GLOBAL",
	GET_GLOBAL:    "GET_GLOBAL",
	SET_LOCAL:     "SET_LOCAL",
	GET_LOCAL:     "GET_LOCAL",
	JUMP_IF_FALSE: "JUMP_IF_FALSE",
	JUMP:          "JUMP",
	LOOP:          "LOOP",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OPCODE(%d)", op)
}

// binaryOpcodeForOp maps a scanned `Op` token's text to the opcode it
// compiles to, per the fixed table in spec.md §4.2.
var binaryOpcodeForOp = map[string]Opcode{
	"+":  ADD,
	"-":  SUB,
	"*":  MUL,
	"/":  DIV,
	"==": EQUAL,
	"!=": NOT_EQUAL,
	"<":  LESS,
	"<=": LESS_EQUAL,
	">":  GREATER,
	">=": GREATER_EQUAL,
}

// Disassemble renders prog as a human-readable instruction listing, one
// instruction per line, for the `compile` CLI subcommand's informational
// pretty-printer (spec.md §1 calls this an out-of-scope external
// collaborator of the core; it lives here only as a debugging aid).
func Disassemble(prog *Program) string {
	var out []byte
	code := prog.Code
	for ip := 0; ip < len(code); {
		op := Opcode(code[ip])
		width := 0
		if int(op) < len(operandWidth) {
			width = operandWidth[op]
		}
		line := fmt.Sprintf("%04d %s", ip, op)
		switch width {
		case 1:
			arg := int(code[ip+1])
			line += fmt.Sprintf(" %d", arg)
			if op == CONSTANT || op == DEFINE_GLOBAL || op == SET_GLOBAL || op == GET_GLOBAL {
				if arg < len(prog.Constants) {
					line += fmt.Sprintf(" ; %s", prog.Constants[arg])
				}
			}
		case 2:
			off := int(code[ip+1])<<8 | int(code[ip+2])
			line += fmt.Sprintf(" %d", off)
		}
		out = append(out, line...)
		out = append(out, '\n')
		ip += 1 + width
	}
	return string(out)
}
