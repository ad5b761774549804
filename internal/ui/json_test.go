package ui

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC)
}

func TestJSONEmitsEnvelopeWithPluginsAndAnchors(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf, "v1")
	j.now = fixedNow

	loc := Location{File: "a.go", LineBegin: 3, LineEnd: 3}
	anchor := Location{File: "a.go", LineBegin: 8, LineEnd: 8}

	require.NoError(t, j.Prolog())
	require.NoError(t, j.Plugin("sbfl"))
	require.NoError(t, j.Result(RenderItem{
		Location:       loc,
		Suspiciousness: 0.9,
		Rationale:      []RationaleChunk{{Text: "see "}, {Anchor: &anchor}},
	}))
	require.NoError(t, j.Epilog())

	var env jsonEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	require.Equal(t, "v1", env.Version)
	require.Equal(t, "2026-07-31T12:00:00Z", env.UTCTime)
	require.Len(t, env.Plugins, 1)
	require.Equal(t, "sbfl", env.Plugins[0].Name)
	require.Len(t, env.Plugins[0].Results, 1)

	res := env.Plugins[0].Results[0]
	require.Equal(t, "a.go", res.Location.File)
	require.InDelta(t, 0.9, res.Suspiciousness, 1e-6)
	require.Len(t, res.Anchors, 1)
	require.Equal(t, 1, res.Anchors[0].Number)
	require.Empty(t, env.Error)
}

func TestJSONResultBeforePluginErrors(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf, "v1")

	err := j.Result(RenderItem{Location: Location{File: "a.go"}})
	require.Error(t, err)
}

func TestJSONRecordsErrorsInEnvelope(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf, "v1")
	j.now = fixedNow

	require.NoError(t, j.Error(errBoom))
	require.NoError(t, j.Epilog())

	var env jsonEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	require.Contains(t, env.Error, "boom")
}
