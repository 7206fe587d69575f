package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/scarab/lang/value"
)

func TestAdd(t *testing.T) {
	got, err := value.Add(value.Int(5), value.Int(10))
	require.NoError(t, err)
	assert.Equal(t, value.Int(15), got)

	got, err = value.Add(value.Str("hello"), value.Str("world"))
	require.NoError(t, err)
	assert.Equal(t, value.Str("helloworld"), got)
}

func TestArithmetic_crossVariantIsTypeError(t *testing.T) {
	cases := []struct {
		name string
		a, b value.Value
	}{
		{"int+str", value.Int(5), value.Str("x")},
		{"bool+int", value.Bool(true), value.Int(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := value.Add(tc.a, tc.b)
			require.Error(t, err)
			var typeErr *value.TypeError
			assert.ErrorAs(t, err, &typeErr)
		})
	}
}

func TestArithmetic_stringSubMulDivUndefined(t *testing.T) {
	_, err := value.Sub(value.Str("a"), value.Str("b"))
	assert.Error(t, err)
	_, err = value.Mul(value.Str("a"), value.Str("b"))
	assert.Error(t, err)
	_, err = value.Div(value.Str("a"), value.Str("b"))
	assert.Error(t, err)
}

func TestDiv_truncatesTowardZero(t *testing.T) {
	got, err := value.Div(value.Int(-7), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.Int(-3), got)
}

func TestDiv_byZero(t *testing.T) {
	_, err := value.Div(value.Int(1), value.Int(0))
	assert.ErrorIs(t, err, value.ErrDivisionByZero)
}

func TestTruthy(t *testing.T) {
	falsy := []value.Value{value.Nil, value.Bool(false), value.Int(0), value.Str("")}
	for _, v := range falsy {
		assert.False(t, v.Truthy(), "%v should be falsy", v)
	}
	truthy := []value.Value{value.Bool(true), value.Int(1), value.Int(-1), value.Str("x")}
	for _, v := range truthy {
		assert.True(t, v.Truthy(), "%v should be truthy", v)
	}
}

func TestEqual_crossVariantNeverErrors(t *testing.T) {
	assert.Equal(t, value.False, value.Equal(value.Int(5), value.Bool(true)))
	assert.Equal(t, value.True, value.NotEqual(value.Int(5), value.Bool(true)))
	assert.Equal(t, value.False, value.Equal(value.Nil, value.Int(0)))
}

func TestEqual_sameVariant(t *testing.T) {
	assert.Equal(t, value.True, value.Equal(value.Int(5), value.Int(5)))
	assert.Equal(t, value.False, value.Equal(value.Int(5), value.Int(6)))
	assert.Equal(t, value.True, value.Equal(value.Str("a"), value.Str("a")))
}

func TestCompare_crossVariantIsError(t *testing.T) {
	_, err := value.Compare("<", value.Int(1), value.Str("a"))
	assert.Error(t, err)
}

func TestCompare_sameVariant(t *testing.T) {
	got, err := value.Compare("<", value.Int(1), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.True, got)

	got, err = value.Compare(">=", value.Str("b"), value.Str("a"))
	require.NoError(t, err)
	assert.Equal(t, value.True, got)
}

func TestNot(t *testing.T) {
	assert.Equal(t, value.True, value.Not(value.Bool(false)))
	assert.Equal(t, value.False, value.Not(value.Int(5)))
}
