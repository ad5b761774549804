package plugin

import "github.com/kolkov/aardwolf/internal/aarddata"

// Preprocessing is the shared, mutable relevance state run_pre hooks
// populate and run_loc hooks consult. Unlike Store's query cache, this is
// intentionally write-then-read within a single orchestrator pass: every
// plugin's run_pre executes before any plugin's run_loc, per the ordering
// guarantee in the concurrency model.
type Preprocessing struct {
	irrelevantStmts map[aarddata.StmtHandle]struct{}
	irrelevantTests map[aarddata.TestNameHandle]struct{}
}

// NewPreprocessing creates empty relevance state: everything is relevant
// until a run_pre hook says otherwise.
func NewPreprocessing() *Preprocessing {
	return &Preprocessing{
		irrelevantStmts: make(map[aarddata.StmtHandle]struct{}),
		irrelevantTests: make(map[aarddata.TestNameHandle]struct{}),
	}
}

// MarkStmt flags stmt as irrelevant to localization.
func (p *Preprocessing) MarkStmt(stmt aarddata.StmtHandle) {
	p.irrelevantStmts[stmt] = struct{}{}
}

// MarkTest flags test as irrelevant to localization.
func (p *Preprocessing) MarkTest(test aarddata.TestNameHandle) {
	p.irrelevantTests[test] = struct{}{}
}

// IsStmtRelevant reports whether stmt has not been marked irrelevant.
func (p *Preprocessing) IsStmtRelevant(stmt aarddata.StmtHandle) bool {
	_, marked := p.irrelevantStmts[stmt]
	return !marked
}

// IsTestRelevant reports whether test has not been marked irrelevant.
func (p *Preprocessing) IsTestRelevant(test aarddata.TestNameHandle) bool {
	_, marked := p.irrelevantTests[test]
	return !marked
}
