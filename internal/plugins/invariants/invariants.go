package invariants

import (
	"fmt"
	"strings"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/query"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// Plugin learns per-view value invariants from every passing test, then
// checks one failing test's observations against them.
type Plugin struct {
	views map[string]*viewState
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "invariants" }

func (p *Plugin) Init(api plugin.Api, opts map[string]any) error {
	if len(opts) > 0 {
		return plugin.NewInitError("invariants: takes no options")
	}
	return nil
}

func (p *Plugin) RunLoc(api plugin.Api, results *plugin.Results, pre *plugin.Preprocessing) {
	store := api.Store()
	rd := store.RawData()
	tests := store.Tests()

	var passing []aarddata.TestNameHandle
	for _, t := range tests.Passed() {
		if pre.IsTestRelevant(t) {
			passing = append(passing, t)
		}
	}

	p.views = make(map[string]*viewState)
	for i, t := range passing {
		vars, err := store.Vars(t)
		if err != nil {
			continue // gracefully degrade: this test contributes nothing
		}
		p.learn(rd, vars, i)
	}

	failing, ok := firstRelevantFailing(tests, pre)
	if !ok {
		return
	}
	vars, err := store.Vars(failing)
	if err != nil {
		return // MissingApi(vars): no results, not an error
	}

	p.check(rd, vars, len(passing), results)
}

func firstRelevantFailing(tests *query.Tests, pre *plugin.Preprocessing) (aarddata.TestNameHandle, bool) {
	for _, t := range tests.Failed() {
		if pre.IsTestRelevant(t) {
			return t, true
		}
	}
	return aarddata.TestNameHandle{}, false
}

func (p *Plugin) learn(rd *rawio.RawData, vars *query.Vars, testIdx int) {
	for _, item := range vars.Items {
		st := rd.Statements.Get(item.Stmt)
		for idx, accessHandle := range st.Defs {
			if idx >= len(item.Defs) {
				break
			}
			value := rd.Values.Get(item.Defs[idx])
			key := viewKey(rd.Accesses, accessHandle)
			state, ok := p.views[key]
			if !ok {
				state = newViewState()
				p.views[key] = state
			}
			state.observe(value, testIdx)
		}
	}
}

func (p *Plugin) check(rd *rawio.RawData, vars *query.Vars, totalPassing int, results *plugin.Results) {
	for _, item := range vars.Items {
		st := rd.Statements.Get(item.Stmt)

		var violations []string
		maxConfidence := 0.0

		for idx, accessHandle := range st.Defs {
			if idx >= len(item.Defs) {
				break
			}
			value := rd.Values.Get(item.Defs[idx])
			key := viewKey(rd.Accesses, accessHandle)
			state, ok := p.views[key]
			if !ok {
				continue
			}
			for _, d := range state.derive() {
				msg, violated := checkViolation(d, value)
				if !violated {
					continue
				}
				violations = append(violations, msg)
				if c := state.confidence(totalPassing); c > maxConfidence {
					maxConfidence = c
				}
			}
		}

		if len(violations) == 0 {
			continue
		}

		text := openingSentence(st) + strings.Join(violations, ", ")
		li, err := plugin.NewLocalizationItem(st.Loc, item.Stmt, float32(maxConfidence), plugin.Rationale{plugin.Text(text)})
		if err != nil {
			continue
		}
		results.Add(li)
	}
}

func checkViolation(d derivedInvariant, value aarddata.Value) (string, bool) {
	switch d.kind {
	case derivedConstant:
		if value.Kind == d.value.Kind && value.CanonicalKey() != d.value.CanonicalKey() {
			return fmt.Sprintf("expected to be constantly %s, but is %s", formatValue(d.value), formatValue(value)), true
		}
	case derivedRange:
		if value.Kind == d.min.Kind && !value.IsExceptional() {
			if compareValues(value, d.min) < 0 || compareValues(value, d.max) > 0 {
				return fmt.Sprintf("expected in [%s,%s]", formatValue(d.min), formatValue(d.max)), true
			}
		}
	case derivedTypeStable:
		if value.Kind != d.typ {
			return fmt.Sprintf("expected type stable as %s, but observed %s", kindName(d.typ), kindName(value.Kind)), true
		}
	case derivedNonExceptional:
		if value.IsExceptional() {
			return fmt.Sprintf("expected a non-exceptional %s value", kindName(d.typ)), true
		}
	}
	return "", false
}

func openingSentence(st aarddata.Statement) string {
	switch {
	case st.IsArg():
		return "This argument violates a learned invariant: "
	case st.IsRet():
		return "This return value violates a learned invariant: "
	case st.IsCall():
		return "This call violates a learned invariant: "
	default:
		return "This statement violates a learned invariant: "
	}
}

func kindName(k aarddata.ValueKind) string {
	switch k {
	case aarddata.ValueSigned:
		return "signed"
	case aarddata.ValueUnsigned:
		return "unsigned"
	case aarddata.ValueFloating:
		return "floating"
	case aarddata.ValueBoolean:
		return "boolean"
	default:
		return "unsupported"
	}
}

func formatValue(v aarddata.Value) string {
	switch v.Kind {
	case aarddata.ValueSigned:
		return fmt.Sprintf("%d", v.Signed)
	case aarddata.ValueUnsigned:
		return fmt.Sprintf("%d", v.Unsigned)
	case aarddata.ValueFloating:
		return fmt.Sprintf("%g", v.Floating)
	case aarddata.ValueBoolean:
		return fmt.Sprintf("%v", v.Boolean)
	default:
		return "unsupported"
	}
}
