package aarddata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloatClassEqualityByClassNotBits(t *testing.T) {
	nan1 := Value{Kind: ValueFloating, Width: 64, Floating: math.NaN()}
	nan2 := Value{Kind: ValueFloating, Width: 64, Floating: math.NaN()}
	require.True(t, nan1.SameClass(nan2), "all NaNs are one class")

	posInf1 := Value{Kind: ValueFloating, Width: 64, Floating: math.Inf(1)}
	posInf2 := Value{Kind: ValueFloating, Width: 64, Floating: math.Inf(1)}
	require.True(t, posInf1.SameClass(posInf2))

	require.False(t, posInf1.SameClass(nan1))

	negInf := Value{Kind: ValueFloating, Width: 64, Floating: math.Inf(-1)}
	require.False(t, posInf1.SameClass(negInf))
}

func TestFiniteFloatsCompareByBitPattern(t *testing.T) {
	a := Value{Kind: ValueFloating, Width: 64, Floating: 1.5}
	b := Value{Kind: ValueFloating, Width: 64, Floating: 1.5}
	c := Value{Kind: ValueFloating, Width: 64, Floating: 1.50000001}

	require.True(t, a.SameClass(b))
	require.False(t, a.SameClass(c))
}

func TestIsExceptionalOnlyForNonFiniteFloats(t *testing.T) {
	require.True(t, Value{Kind: ValueFloating, Floating: math.NaN()}.IsExceptional())
	require.True(t, Value{Kind: ValueFloating, Floating: math.Inf(1)}.IsExceptional())
	require.False(t, Value{Kind: ValueFloating, Floating: 0}.IsExceptional())
	require.False(t, Value{Kind: ValueSigned, Signed: 0}.IsExceptional())
}

func TestIsNumericAndIsZero(t *testing.T) {
	require.True(t, Value{Kind: ValueSigned, Signed: 0}.IsZero())
	require.False(t, Value{Kind: ValueSigned, Signed: 1}.IsZero())
	require.True(t, Value{Kind: ValueSigned}.IsNumeric())
	require.True(t, Value{Kind: ValueFloating}.IsNumeric())
	require.False(t, Value{Kind: ValueBoolean}.IsNumeric())
	require.False(t, Value{Kind: ValueUnsupported}.IsZero())
}
