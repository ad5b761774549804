package ui

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"
)

type jsonAnchor struct {
	File      string `json:"file"`
	LineBegin uint32 `json:"line_begin"`
	LineEnd   uint32 `json:"line_end"`
	Number    int    `json:"number"`
}

type jsonLocation struct {
	File      string `json:"file"`
	LineBegin uint32 `json:"line_begin"`
	LineEnd   uint32 `json:"line_end"`
}

type jsonRationaleChunk struct {
	Text   string      `json:"text,omitempty"`
	Anchor *jsonAnchor `json:"anchor,omitempty"`
}

type jsonResult struct {
	Location       jsonLocation         `json:"location"`
	Suspiciousness float32              `json:"suspiciousness"`
	Rationale      []jsonRationaleChunk `json:"rationale"`
	Anchors        []jsonAnchor         `json:"anchors"`
}

type jsonPlugin struct {
	Name    string       `json:"name"`
	Results []jsonResult `json:"results"`
}

type jsonEnvelope struct {
	Version   string       `json:"version"`
	UTCTime   string       `json:"utc_time"`
	LocalTime string       `json:"local_time"`
	Plugins   []jsonPlugin `json:"plugins"`
	Error     string       `json:"error,omitempty"`
}

// JSON is the machine-readable Renderer: it buffers every plugin section
// in memory and emits one envelope on Epilog, per the {version, utc_time,
// local_time, plugins:[...]} contract.
type JSON struct {
	w       io.Writer
	version string
	now     func() time.Time

	plugins []jsonPlugin
	cur     *jsonPlugin

	anchors    map[Location]int
	nextAnchor int
	errs       []string
}

// NewJSON builds a JSON renderer writing to w, stamping version into every
// envelope.
func NewJSON(w io.Writer, version string) *JSON {
	return &JSON{w: w, version: version, now: time.Now, anchors: make(map[Location]int)}
}

func (j *JSON) Prolog() error { return nil }

func (j *JSON) Plugin(name string) error {
	j.plugins = append(j.plugins, jsonPlugin{Name: name, Results: []jsonResult{}})
	j.cur = &j.plugins[len(j.plugins)-1]
	return nil
}

func (j *JSON) Result(item RenderItem) error {
	if j.cur == nil {
		return errNoPlugin
	}
	res := jsonResult{
		Location: jsonLocation{
			File:      item.Location.File,
			LineBegin: item.Location.LineBegin,
			LineEnd:   item.Location.LineEnd,
		},
		Suspiciousness: item.Suspiciousness,
		Rationale:      make([]jsonRationaleChunk, 0, len(item.Rationale)),
	}
	for _, ch := range item.Rationale {
		jc := jsonRationaleChunk{Text: ch.Text}
		if ch.Anchor != nil {
			n := j.anchorNumber(*ch.Anchor)
			a := jsonAnchor{File: ch.Anchor.File, LineBegin: ch.Anchor.LineBegin, LineEnd: ch.Anchor.LineEnd, Number: n}
			jc.Anchor = &a
			res.Anchors = append(res.Anchors, a)
		}
		res.Rationale = append(res.Rationale, jc)
	}
	j.cur.Results = append(j.cur.Results, res)
	return nil
}

func (j *JSON) Error(err error) error {
	j.errs = append(j.errs, err.Error())
	return nil
}

func (j *JSON) Epilog() error {
	now := j.now()
	env := jsonEnvelope{
		Version:   j.version,
		UTCTime:   now.UTC().Format(time.RFC3339),
		LocalTime: now.Format(time.RFC3339),
		Plugins:   j.plugins,
	}
	if len(j.errs) > 0 {
		env.Error = strings.Join(j.errs, "; ")
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

func (j *JSON) anchorNumber(loc Location) int {
	if n, ok := j.anchors[loc]; ok {
		return n
	}
	j.nextAnchor++
	j.anchors[loc] = j.nextAnchor
	return j.nextAnchor
}

var errNoPlugin = errors.New("ui: Result called before any Plugin section was opened")
