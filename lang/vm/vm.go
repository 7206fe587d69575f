// Package vm implements the stack-based virtual machine that executes
// Scarab bytecode programs produced by lang/compiler.
package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"

	"github.com/mna/scarab/lang/compiler"
	"github.com/mna/scarab/lang/value"
)

// MaxStackSize bounds the operand stack, per spec.md §3.
const MaxStackSize = 256

// Options configures a single Run call.
type Options struct {
	// Capture, when true, appends PRINTed values to Result.Captured instead
	// of writing them to Stdout. Used by tests.
	Capture bool
	// Trace, when true, writes one line per executed instruction to Stderr.
	Trace bool
	// Stdout receives PRINTed values when Capture is false. Defaults to
	// os.Stdout when nil.
	Stdout io.Writer
	// Stderr receives trace output when Trace is true. Defaults to os.Stderr.
	Stderr io.Writer
}

// Result is what a Run call produces on success.
type Result struct {
	Captured []value.Value
}

// VM holds the state of one bytecode execution: the program counter, the
// operand stack, and the globals table. Locals live directly on the
// operand stack, at the slot index the compiler assigned them, so
// GET_LOCAL/SET_LOCAL index into the same stack used for expression
// evaluation. A VM is single-use; discard it after Run returns, whether or
// not it failed.
type VM struct {
	code      []byte
	constants []value.Value

	stack    []value.Value
	captured []value.Value
	ip       int

	globals *Globals

	opts   Options
	stdout *bufio.Writer
	stderr io.Writer
}

// New constructs a VM ready to execute prog.
func New(prog *compiler.Program, opts Options) *VM {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &VM{
		code:      prog.Code,
		constants: prog.Constants,
		stack:     slices.Grow(make([]value.Value, 0), MaxStackSize),
		ip:        -1,
		globals:   NewGlobals(),
		opts:      opts,
		stdout:    bufio.NewWriter(opts.Stdout),
		stderr:    opts.Stderr,
	}
}

// Run compiles nothing itself; it executes an already-compiled prog under
// opts and returns the captured print output (only populated when
// opts.Capture is set), or the first RuntimeError encountered. The stack is
// never unwound on error: a failed VM is discarded, not reused.
func Run(prog *compiler.Program, opts Options) (*Result, error) {
	m := New(prog, opts)
	if err := m.run(); err != nil {
		return nil, err
	}
	m.stdout.Flush()
	return &Result{Captured: m.captured}, nil
}

func (m *VM) push(v value.Value) error {
	if len(m.stack) >= MaxStackSize {
		return errStackOverflow()
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *VM) pop() (value.Value, error) {
	n := len(m.stack)
	if n == 0 {
		return value.Value{}, errStackUnderflow()
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

func (m *VM) peek() (value.Value, error) {
	n := len(m.stack)
	if n == 0 {
		return value.Value{}, errStackUnderflow()
	}
	return m.stack[n-1], nil
}

func (m *VM) readByte() byte {
	m.ip++
	return m.code[m.ip]
}

func (m *VM) readShort() int {
	hi := m.readByte()
	lo := m.readByte()
	return int(hi)<<8 | int(lo)
}

func (m *VM) print(v value.Value) {
	if m.opts.Capture {
		m.captured = append(m.captured, v)
		return
	}
	fmt.Fprintln(m.stdout, v.String())
	m.stdout.Flush()
}

// run is the dispatch loop: decode one opcode, execute it, repeat until the
// code is exhausted or a RuntimeError occurs. The switch covers every
// opcode in compiler.Opcode; an opcode that falls through to default can
// only mean a corrupt Program, since compile always emits valid code.
func (m *VM) run() error {
	for m.ip+1 < len(m.code) {
		op := compiler.Opcode(m.readByte())
		if m.opts.Trace {
			fmt.Fprintf(m.stderr, "%04d %s\n", m.ip, op)
		}

		switch op {
		case compiler.CONSTANT:
			idx := m.readByte()
			if err := m.push(m.constants[idx]); err != nil {
				return err
			}

		case compiler.TRUE:
			if err := m.push(value.True); err != nil {
				return err
			}

		case compiler.FALSE:
			if err := m.push(value.False); err != nil {
				return err
			}

		case compiler.POP:
			if _, err := m.pop(); err != nil {
				return err
			}

		case compiler.PRINT:
			v, err := m.pop()
			if err != nil {
				return err
			}
			m.print(v)

		case compiler.NOT:
			v, err := m.pop()
			if err != nil {
				return err
			}
			if err := m.push(value.Not(v)); err != nil {
				return err
			}

		case compiler.ADD, compiler.SUB, compiler.MUL, compiler.DIV:
			if err := m.binaryArith(op); err != nil {
				return err
			}

		case compiler.EQUAL, compiler.NOT_EQUAL:
			b, err := m.pop()
			if err != nil {
				return err
			}
			a, err := m.pop()
			if err != nil {
				return err
			}
			var result value.Value
			if op == compiler.EQUAL {
				result = value.Equal(a, b)
			} else {
				result = value.NotEqual(a, b)
			}
			if err := m.push(result); err != nil {
				return err
			}

		case compiler.LESS, compiler.LESS_EQUAL, compiler.GREATER, compiler.GREATER_EQUAL:
			if err := m.comparison(op); err != nil {
				return err
			}

		case compiler.DEFINE_GLOBAL:
			name := m.constants[m.readByte()]
			v, err := m.peek()
			if err != nil {
				return err
			}
			m.globals.Define(name, v)

		case compiler.SET_GLOBAL:
			name := m.constants[m.readByte()]
			v, err := m.peek()
			if err != nil {
				return err
			}
			if !m.globals.Set(name, v) {
				return errUndefinedName(name.String())
			}

		case compiler.GET_GLOBAL:
			name := m.constants[m.readByte()]
			v, ok := m.globals.Get(name)
			if !ok {
				return errUndefinedName(name.String())
			}
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.SET_LOCAL:
			slot := int(m.readByte())
			v, err := m.peek()
			if err != nil {
				return err
			}
			m.stack[slot] = v

		case compiler.GET_LOCAL:
			slot := int(m.readByte())
			if slot >= len(m.stack) {
				return errStackUnderflow()
			}
			if err := m.push(m.stack[slot]); err != nil {
				return err
			}

		case compiler.JUMP_IF_FALSE:
			offset := m.readShort()
			cond, err := m.peek()
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				m.ip += offset
			}

		case compiler.JUMP:
			offset := m.readShort()
			m.ip += offset

		case compiler.LOOP:
			offset := m.readShort()
			m.ip -= offset

		default:
			return errUnknownOpcode(byte(op))
		}
	}
	return nil
}

func (m *VM) binaryArith(op compiler.Opcode) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}

	var result value.Value
	var opErr error
	switch op {
	case compiler.ADD:
		result, opErr = value.Add(a, b)
	case compiler.SUB:
		result, opErr = value.Sub(a, b)
	case compiler.MUL:
		result, opErr = value.Mul(a, b)
	case compiler.DIV:
		result, opErr = value.Div(a, b)
	}
	if opErr != nil {
		if errors.Is(opErr, value.ErrDivisionByZero) {
			return errDivisionByZero()
		}
		return errType(opErr)
	}
	return m.push(result)
}

func (m *VM) comparison(op compiler.Opcode) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}

	var opText string
	switch op {
	case compiler.LESS:
		opText = "<"
	case compiler.LESS_EQUAL:
		opText = "<="
	case compiler.GREATER:
		opText = ">"
	case compiler.GREATER_EQUAL:
		opText = ">="
	}

	result, cmpErr := value.Compare(opText, a, b)
	if cmpErr != nil {
		return errType(cmpErr)
	}
	return m.push(result)
}
