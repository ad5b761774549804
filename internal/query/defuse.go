package query

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// DefUse is the key=FuncName query giving each statement's defined and used
// Access handles as sets, for callers that only care about membership.
type DefUse struct {
	Defs map[aarddata.StmtHandle]map[aarddata.AccessHandle]struct{}
	Uses map[aarddata.StmtHandle]map[aarddata.AccessHandle]struct{}
}

// BuildDefUse materializes the def/use sets for every statement belonging
// to fn.
func BuildDefUse(rd *rawio.RawData, fn aarddata.FuncNameHandle) *DefUse {
	du := &DefUse{
		Defs: make(map[aarddata.StmtHandle]map[aarddata.AccessHandle]struct{}),
		Uses: make(map[aarddata.StmtHandle]map[aarddata.AccessHandle]struct{}),
	}
	for _, h := range rd.FuncStmts[fn] {
		st := rd.Statements.Get(h)

		defs := make(map[aarddata.AccessHandle]struct{}, len(st.Defs))
		for _, a := range st.Defs {
			defs[a] = struct{}{}
		}
		du.Defs[h] = defs

		uses := make(map[aarddata.AccessHandle]struct{}, len(st.Uses))
		for _, a := range st.Uses {
			uses[a] = struct{}{}
		}
		du.Uses[h] = uses
	}
	return du
}
