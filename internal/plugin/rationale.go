package plugin

import "github.com/kolkov/aardwolf/internal/aarddata"

// ChunkKind discriminates the two shapes a Rationale chunk can take.
type ChunkKind uint8

const (
	ChunkText ChunkKind = iota
	ChunkAnchor
)

// Chunk is one piece of a Rationale: free text, or a reference to a source
// location a renderer numbers and dedupes.
type Chunk struct {
	Kind ChunkKind
	Text string
	Loc  aarddata.Loc
}

// Text builds a plain-text chunk.
func Text(s string) Chunk { return Chunk{Kind: ChunkText, Text: s} }

// Anchor builds a source-location chunk.
func Anchor(loc aarddata.Loc) Chunk { return Chunk{Kind: ChunkAnchor, Loc: loc} }

// Rationale is an ordered sequence of chunks explaining one
// LocalizationItem. Renderers walk it in order, numbering each distinct
// Anchor the first time it is seen and reusing that number on repeats.
type Rationale []Chunk
