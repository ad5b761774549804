package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIRendersResultWithAnchorNumbering(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLI(&buf)

	loc := Location{File: "a.go", LineBegin: 5, LineEnd: 5}
	anchor := Location{File: "a.go", LineBegin: 9, LineEnd: 9}

	require.NoError(t, c.Prolog())
	require.NoError(t, c.Plugin("sbfl"))
	require.NoError(t, c.Result(RenderItem{
		Location:       loc,
		Suspiciousness: 0.5,
		Rationale:      []RationaleChunk{{Text: "see "}, {Anchor: &anchor}},
	}))
	require.NoError(t, c.Result(RenderItem{
		Location:       anchor,
		Suspiciousness: 0.25,
		Rationale:      []RationaleChunk{{Text: "plain"}},
	}))
	require.NoError(t, c.Epilog())

	out := buf.String()
	require.Contains(t, out, "== sbfl ==")
	require.Contains(t, out, "[1] a.go:5")
	require.Contains(t, out, "[2] a.go:9")
	require.Contains(t, out, "[2 a.go:9]") // same anchor reused, same number
	require.Equal(t, 1, strings.Count(out, "[2 a.go:9]"))
}

func TestCLIWrapsLongRationaleText(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLI(&buf)

	long := strings.Repeat("word ", 30)
	require.NoError(t, c.Result(RenderItem{
		Location:       Location{File: "a.go", LineBegin: 1, LineEnd: 1},
		Suspiciousness: 1,
		Rationale:      []RationaleChunk{{Text: long}},
	}))

	for _, line := range strings.Split(buf.String(), "\n") {
		require.LessOrEqual(t, len(line), wrapWidth+len("word")+1)
	}
}

func TestCLIPrintsErrorsInRed(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLI(&buf)

	require.NoError(t, c.Error(errBoom))
	require.Contains(t, buf.String(), ansiRed)
	require.Contains(t, buf.String(), "boom")
}
