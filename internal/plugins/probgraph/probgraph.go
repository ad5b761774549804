package probgraph

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
)

// Plugin learns a PPDG from every passing test's walk through its
// functions' model graphs, then scores each failing test's statements by
// how unlikely their observed state was given their parents' states.
type Plugin struct {
	model string // "dependency" or "bayesian"; Bayesian currently equals Dependence
}

// New returns a Plugin defaulting to the dependency model.
func New() *Plugin { return &Plugin{model: "dependency"} }

func (p *Plugin) Name() string { return "probgraph" }

func (p *Plugin) Init(api plugin.Api, opts map[string]any) error {
	p.model = "dependency"
	raw, ok := opts["model"]
	if !ok {
		return nil
	}
	name, ok := raw.(string)
	if !ok {
		return plugin.NewInitError("probgraph: model must be a string")
	}
	switch name {
	case "dependency", "bayesian":
		p.model = name
	default:
		return plugin.NewInitError("probgraph: unknown model %q", name)
	}
	return nil
}

func (p *Plugin) RunLoc(api plugin.Api, results *plugin.Results, pre *plugin.Preprocessing) {
	store := api.Store()
	rd := store.RawData()
	tests := store.Tests()

	models := make(map[aarddata.FuncNameHandle]*Model)
	getModel := func(fn aarddata.FuncNameHandle) *Model {
		if m, ok := models[fn]; ok {
			return m
		}
		m := BuildModel(rd, store.Cfg(fn), store.Pdg(fn))
		models[fn] = m
		return m
	}

	ppdg := newPPDG()
	for _, t := range tests.Passed() {
		if !pre.IsTestRelevant(t) {
			continue
		}
		for _, obs := range walkTrace(rd, getModel, tests.Traces[t]) {
			ppdg.observe(obs)
		}
	}

	for _, t := range tests.Failed() {
		if !pre.IsTestRelevant(t) {
			continue
		}
		obsSeq := walkTrace(rd, getModel, tests.Traces[t])
		localize(rd, ppdg, obsSeq, pre, results)
	}
}
