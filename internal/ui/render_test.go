package ui

import (
	"errors"
	"testing"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/rawio"
	"github.com/stretchr/testify/require"
)

func buildResolveFixture() (*rawio.RawData, plugin.LocalizationItem) {
	rd := rawio.NewRawData()
	file := aarddata.FileId(1)
	rd.Files[file] = "pkg/widget.go"

	loc := aarddata.Loc{File: file, LineBegin: 10, LineEnd: 12}
	anchorLoc := aarddata.Loc{File: file, LineBegin: 20, LineEnd: 20}

	item, err := plugin.NewLocalizationItem(loc, aarddata.StmtHandle{}, 0.75, plugin.Rationale{
		plugin.Text("depends on "),
		plugin.Anchor(anchorLoc),
	})
	if err != nil {
		panic(err)
	}
	return rd, item
}

func TestResolveFillsFilePathsFromRawData(t *testing.T) {
	rd, item := buildResolveFixture()

	resolved := Resolve(rd, item)
	require.Equal(t, "pkg/widget.go", resolved.Location.File)
	require.Equal(t, uint32(10), resolved.Location.LineBegin)
	require.Equal(t, uint32(12), resolved.Location.LineEnd)
	require.Equal(t, float32(0.75), resolved.Suspiciousness)

	require.Len(t, resolved.Rationale, 2)
	require.Nil(t, resolved.Rationale[0].Anchor)
	require.Equal(t, "depends on ", resolved.Rationale[0].Text)
	require.NotNil(t, resolved.Rationale[1].Anchor)
	require.Equal(t, "pkg/widget.go", resolved.Rationale[1].Anchor.File)
	require.Equal(t, uint32(20), resolved.Rationale[1].Anchor.LineBegin)
}

var errBoom = errors.New("boom")
