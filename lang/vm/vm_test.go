package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/scarab/lang/compiler"
	"github.com/mna/scarab/lang/value"
	"github.com/mna/scarab/lang/vm"
)

func run(t *testing.T, source string) []value.Value {
	t.Helper()
	prog, err := compiler.Compile(source)
	require.NoError(t, err, source)
	res, err := vm.Run(prog, vm.Options{Capture: true})
	require.NoError(t, err, source)
	return res.Captured
}

func runErr(t *testing.T, source string) error {
	t.Helper()
	prog, err := compiler.Compile(source)
	require.NoError(t, err, source)
	_, err = vm.Run(prog, vm.Options{Capture: true})
	return err
}

func TestRun_arithmeticPrecedence(t *testing.T) {
	assert.Equal(t, []value.Value{value.Int(7)}, run(t, "print 1 + 2 * 3"))
	assert.Equal(t, []value.Value{value.Int(9)}, run(t, "print (1 + 2) * 3"))
	assert.Equal(t, []value.Value{value.Int(0)}, run(t, "print 7 - 2 * 3 - 1"))
}

func TestRun_stringConcat(t *testing.T) {
	src := `meal := "eggs" beverage := "coffee" breakfast := meal + " and " + beverage print breakfast`
	assert.Equal(t, []value.Value{value.Str("eggs and coffee")}, run(t, src))
}

func TestRun_whileLoop(t *testing.T) {
	src := `n := 0 total := 0 while n != 5 do total = total + n n = n + 1 end print total`
	assert.Equal(t, []value.Value{value.Int(10)}, run(t, src))
}

func TestRun_ifOr(t *testing.T) {
	src := `x := 0 if x == 0 or x == 1 do print "zero or one" end`
	assert.Equal(t, []value.Value{value.Str("zero or one")}, run(t, src))
}

func TestRun_doEndShadowing(t *testing.T) {
	src := `x := 1 do x := 2 print x end print x`
	assert.Equal(t, []value.Value{value.Int(2), value.Int(1)}, run(t, src))
}

func TestRun_undefinedNameIsRuntimeError(t *testing.T) {
	err := runErr(t, "print missing")
	require.Error(t, err)
	var re *vm.RuntimeError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, "undefined name", re.Kind)
}

func TestRun_equalAndNotEqual(t *testing.T) {
	assert.Equal(t, []value.Value{value.True}, run(t, `print 1 == 1`))
	assert.Equal(t, []value.Value{value.False}, run(t, `print 1 == "1"`))
	assert.Equal(t, []value.Value{value.True}, run(t, `print 1 != 2`))
}

func TestRun_andOrShortCircuit(t *testing.T) {
	// the right-hand side of `and`/`or` must not execute when short-circuited;
	// if it did, the undefined name would raise a runtime error.
	assert.Equal(t, []value.Value{value.False}, run(t, `print 1 == 2 and missing`))
	assert.Equal(t, []value.Value{value.Int(1)}, run(t, `print 1 or missing`))
}

func TestRun_chainedAssignment(t *testing.T) {
	src := `x := y := 5 print x print y`
	assert.Equal(t, []value.Value{value.Int(5), value.Int(5)}, run(t, src))
}

func TestRun_stackNetZeroAtHalt(t *testing.T) {
	prog, err := compiler.Compile(`x := 1 if x == 1 do print x end while x != 1 do x = x end`)
	require.NoError(t, err)
	_, err = vm.Run(prog, vm.Options{Capture: true})
	require.NoError(t, err)
}

func TestRun_localsPopOnScopeExit(t *testing.T) {
	// two sibling do-blocks each declare a local y; neither should leak into
	// the other's local slots nor into the outer scope.
	src := `x := 1 do y := 2 print y end do y := 3 print y end print x`
	assert.Equal(t, []value.Value{value.Int(2), value.Int(3), value.Int(1)}, run(t, src))
}

func TestRun_divisionByZero(t *testing.T) {
	err := runErr(t, "print 1 / 0")
	require.Error(t, err)
	var re *vm.RuntimeError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, "division by zero", re.Kind)
}

func TestRun_comparisonTypeError(t *testing.T) {
	err := runErr(t, `print 1 < "a"`)
	require.Error(t, err)
	var re *vm.RuntimeError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, "type error", re.Kind)
}
