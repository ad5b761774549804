// Package irrelevant implements the Irrelevant preprocessing plugin: it
// marks every statement that never executed in any failing test, so later
// plugins honoring is_stmt_relevant skip them.
package irrelevant

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
)

// Plugin has no options; its RunPre computes the complement of the union
// of failing-test traces and marks it, mirroring an instrumentor's
// collect-the-complement-then-act shape.
type Plugin struct{}

// New returns a ready Plugin; it takes no configuration.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "irrelevant" }

func (p *Plugin) RunPre(api plugin.Api, pre *plugin.Preprocessing) error {
	store := api.Store()
	stmts := store.Stmts()
	tests := store.Tests()

	seenInFailing := make(map[aarddata.StmtHandle]struct{})
	for _, tn := range tests.Failed() {
		for _, h := range tests.Traces[tn] {
			seenInFailing[h] = struct{}{}
		}
	}

	for _, h := range stmts.Mapping {
		if _, ok := seenInFailing[h]; !ok {
			pre.MarkStmt(h)
		}
	}
	return nil
}
