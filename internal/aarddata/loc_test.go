package aarddata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeLocContainsBoth(t *testing.T) {
	a := Loc{File: 1, LineBegin: 5, ColBegin: 3, LineEnd: 5, ColEnd: 10}
	b := Loc{File: 1, LineBegin: 6, ColBegin: 1, LineEnd: 7, ColEnd: 4}

	m := MergeLoc(a, b)

	require.True(t, m.Contains(a))
	require.True(t, m.Contains(b))
	require.Equal(t, uint32(5), m.LineBegin)
	require.Equal(t, uint32(7), m.LineEnd)
}

func TestContainsRequiresSameFile(t *testing.T) {
	a := Loc{File: 1, LineBegin: 1, ColBegin: 1, LineEnd: 10, ColEnd: 1}
	b := Loc{File: 2, LineBegin: 2, ColBegin: 1, LineEnd: 3, ColEnd: 1}

	require.False(t, a.Contains(b))
}

func TestContainsLexicographicOnBeginEnd(t *testing.T) {
	outer := Loc{File: 1, LineBegin: 1, ColBegin: 1, LineEnd: 5, ColEnd: 99}
	inner := Loc{File: 1, LineBegin: 2, ColBegin: 0, LineEnd: 2, ColEnd: 40}

	require.True(t, outer.Contains(inner))
	require.False(t, inner.Contains(outer))
}
