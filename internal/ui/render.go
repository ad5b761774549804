// Package ui renders one analysis run's plugin outcomes to a human or a
// machine, behind a single Renderer interface so the orchestrator never
// has to know which format it's writing.
package ui

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// Location is a resolved, renderer-facing source span: a real file path
// rather than an opaque FileId.
type Location struct {
	File      string
	LineBegin uint32
	LineEnd   uint32
}

// RationaleChunk mirrors plugin.Chunk with its file id resolved to a path.
// Anchor is nil for a plain-text chunk.
type RationaleChunk struct {
	Text   string
	Anchor *Location
}

// RenderItem is one plugin hypothesis with every handle resolved to a
// value a renderer can print or marshal directly.
type RenderItem struct {
	Location       Location
	Suspiciousness float32
	Rationale      []RationaleChunk
}

// Renderer is the shared contract every output format implements: a
// prolog/epilog bracketing one or more plugin sections, each carrying zero
// or more results, plus a hook for a run-aborting error.
type Renderer interface {
	Prolog() error
	Plugin(name string) error
	Result(item RenderItem) error
	Error(err error) error
	Epilog() error
}

// Resolve turns a plugin.LocalizationItem into a RenderItem by looking up
// every file id it and its rationale anchors reference against rd.
func Resolve(rd *rawio.RawData, item plugin.LocalizationItem) RenderItem {
	chunks := make([]RationaleChunk, len(item.Rationale))
	for i, c := range item.Rationale {
		switch c.Kind {
		case plugin.ChunkAnchor:
			loc := resolveLoc(rd, c.Loc)
			chunks[i] = RationaleChunk{Anchor: &loc}
		default:
			chunks[i] = RationaleChunk{Text: c.Text}
		}
	}
	return RenderItem{
		Location:       resolveLoc(rd, item.Loc),
		Suspiciousness: item.Score,
		Rationale:      chunks,
	}
}

func resolveLoc(rd *rawio.RawData, loc aarddata.Loc) Location {
	return Location{File: rd.Files[loc.File], LineBegin: loc.LineBegin, LineEnd: loc.LineEnd}
}
