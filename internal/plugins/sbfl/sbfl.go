// Package sbfl implements spectrum-based fault localization: DStar,
// Ochiai and Tarantula, scored from the passed/failed x executed/not cells
// of each statement's spectrum.
package sbfl

import (
	"math"
	"sort"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
)

const epsilon = 0.5

type metricKind int

const (
	metricDStar metricKind = iota
	metricOchiai
	metricTarantula
)

// Plugin computes an SBFL score for every relevant statement.
type Plugin struct {
	metric metricKind
	star   float64
}

// New returns a Plugin defaulting to DStar with star 2; Init must run
// before any other hook.
func New() *Plugin { return &Plugin{metric: metricDStar, star: 2} }

func (p *Plugin) Name() string { return "sbfl" }

func (p *Plugin) Init(api plugin.Api, opts map[string]any) error {
	if raw, ok := opts["metric"]; ok {
		name, ok := raw.(string)
		if !ok {
			return plugin.NewInitError("sbfl: metric must be a string")
		}
		switch name {
		case "dstar":
			p.metric = metricDStar
		case "ochiai":
			p.metric = metricOchiai
		case "tarantula":
			p.metric = metricTarantula
		default:
			return plugin.NewInitError("sbfl: unknown metric %q", name)
		}
	}

	p.star = 2
	if raw, ok := opts["star"]; ok {
		n, ok := asNumber(raw)
		if !ok || n < 1 {
			return plugin.NewInitError("sbfl: star must be a number >= 1")
		}
		p.star = n
	}
	return nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// cell holds the four spectrum counts for one statement.
type cell struct {
	aep, anp, aef, anf float64
}

func (p *Plugin) RunLoc(api plugin.Api, results *plugin.Results, pre *plugin.Preprocessing) {
	store := api.Store()
	stmts := store.Stmts()
	tests := store.Tests()
	spectra := store.Spectra()
	rd := store.RawData()

	// Results break score ties by insertion order, so the map of executed
	// statements is walked in StmtId order rather than Go's randomized map
	// order.
	ids := make([]aarddata.StmtId, 0, len(stmts.Mapping))
	for id := range stmts.Mapping {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].File != ids[j].File {
			return ids[i].File < ids[j].File
		}
		return ids[i].Local < ids[j].Local
	})

	for _, id := range ids {
		handle := stmts.Mapping[id]
		if !pre.IsStmtRelevant(handle) {
			continue
		}
		c := cell{}
		for _, test := range tests.All() {
			if !pre.IsTestRelevant(test) {
				continue
			}
			executed := spectra.IsExecutedIn(test, id)
			failed := tests.Status[test] == aarddata.TestFailed
			switch {
			case failed && executed:
				c.aef++
			case failed && !executed:
				c.anf++
			case !failed && executed:
				c.aep++
			default:
				c.anp++
			}
		}

		score := p.score(c)
		st := rd.Statements.Get(handle)
		item, err := plugin.NewLocalizationItem(st.Loc, handle, float32(score), plugin.Rationale{
			plugin.Text("The element is executed more in failing tests and less in passing tests."),
		})
		if err != nil {
			continue
		}
		results.Add(item)
	}
}

func (p *Plugin) score(c cell) float64 {
	switch p.metric {
	case metricOchiai:
		return c.aef / (math.Sqrt((c.aef+c.anf)*(c.aef+c.aep)) + epsilon)
	case metricTarantula:
		p1 := c.aef / (c.aef + c.anf + epsilon)
		p2 := c.aep / (c.aep + c.anp + epsilon)
		return p1 / (p1 + p2 + epsilon)
	default:
		return math.Pow(c.aef, p.star) / (c.anf + c.aep + epsilon)
	}
}
