// Package coalesce implements the basic-block coalescer: a post-pass that
// merges a referenced plugin's consecutive same-score, same-rationale items
// into a single item spanning their combined Loc.
package coalesce

import (
	"reflect"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/query"
)

// Plugin merges a referenced plugin's adjacent results along single-edge
// CFG chains, the same conservative-grouping discipline as a static
// instrumentor coalescing adjacent barrier checks: break the group on any
// mismatch, never merge speculatively.
type Plugin struct {
	forName string
}

// New returns an unconfigured Plugin; Init must run before RunPost.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "coalesce" }

func (p *Plugin) Init(api plugin.Api, opts map[string]any) error {
	raw, ok := opts["for"]
	if !ok {
		return plugin.NewInitError("coalesce: option \"for\" is required")
	}
	name, ok := raw.(string)
	if !ok || name == "" {
		return plugin.NewInitError("coalesce: \"for\" must be a non-empty string")
	}
	p.forName = name
	return nil
}

// RunPost reads p.forName's final buffer and emits one merged item per
// maximal chain of matching neighbors.
func (p *Plugin) RunPost(api plugin.Api, prior map[string]*plugin.Results, results *plugin.Results) {
	src, ok := prior[p.forName]
	if !ok {
		return
	}
	store := api.Store()
	rd := store.RawData()

	ranked := src.Iter() // descending score, stable insertion tie-break
	pool := make([]plugin.LocalizationItem, len(ranked))
	for i, it := range ranked {
		pool[len(ranked)-1-i] = it // ascending score: reverse of ranked output
	}

	byStmt := make(map[aarddata.StmtHandle]int, len(pool))
	for i, it := range pool {
		byStmt[it.RootStmt] = i
	}
	consumed := make([]bool, len(pool))

	cfgs := make(map[aarddata.FuncNameHandle]*query.Cfg)
	cfgFor := func(fn aarddata.FuncNameHandle) *query.Cfg {
		if c, ok := cfgs[fn]; ok {
			return c
		}
		c := store.Cfg(fn)
		cfgs[fn] = c
		return c
	}

	for i, item := range pool {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		fn := rd.Statements.Get(item.RootStmt).Func
		cfg := cfgFor(fn)
		loc := item.Loc

		// Forward: single-successor chains only; a predicate statement has
		// more than one successor and breaks the chain on its own.
		cur := item.RootStmt
		for {
			succs := cfg.Succ[cur]
			if len(succs) != 1 || succs[0] == cfg.Exit {
				break
			}
			next := succs[0]
			if len(cfg.Pred[next]) != 1 {
				break // join point: next starts a different basic block
			}
			idx, ok := byStmt[next]
			if !ok || consumed[idx] {
				break
			}
			cand := pool[idx]
			if !matches(item, cand) {
				break
			}
			consumed[idx] = true
			loc = aarddata.MergeLoc(loc, cand.Loc)
			cur = next
		}

		// Backward: single-predecessor chains, stopping before a predicate
		// (a node with more than one successor of its own).
		cur = item.RootStmt
		for {
			preds := cfg.Pred[cur]
			if len(preds) != 1 || preds[0] == cfg.Entry {
				break
			}
			prev := preds[0]
			if rd.Statements.Get(prev).IsPredicate() || len(cfg.Succ[prev]) != 1 {
				break
			}
			idx, ok := byStmt[prev]
			if !ok || consumed[idx] {
				break
			}
			cand := pool[idx]
			if !matches(item, cand) {
				break
			}
			consumed[idx] = true
			loc = aarddata.MergeLoc(loc, cand.Loc)
			cur = prev
		}

		merged, err := plugin.NewLocalizationItem(loc, item.RootStmt, item.Score, item.Rationale)
		if err != nil {
			continue
		}
		results.Add(merged)
	}
}

// matches reports whether cand belongs in the same coalesced group as
// root: an exactly equal score and rationale.
func matches(root, cand plugin.LocalizationItem) bool {
	return root.Score == cand.Score && reflect.DeepEqual(root.Rationale, cand.Rationale)
}
