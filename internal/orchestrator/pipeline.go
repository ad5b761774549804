package orchestrator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kolkov/aardwolf/internal/aardcfg"
	"github.com/kolkov/aardwolf/internal/aardlog"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/query"
	"go.uber.org/zap"
)

// PluginOutcome is one configured plugin's final buffer after a pipeline
// run, or the error that kept it from contributing anything.
type PluginOutcome struct {
	Name    string
	Results *plugin.Results
	Err     error
}

type instance struct {
	name string
	pl   plugin.Plugin
	res  *plugin.Results
}

// Pipeline runs a configured plugin list against one query.Store, honoring
// the ordering guarantee that every plugin's run_pre precedes any plugin's
// run_loc, and run_post runs only after every run_loc has finished.
type Pipeline struct {
	store *query.Store
	log   *aardlog.Logger
	runID uuid.UUID
}

// NewPipeline builds a Pipeline over store, logging phase-tagged lines to
// log (a nil log is valid — lines are simply dropped) tagged with runID so
// its lines correlate with the Driver phases of the same run.
func NewPipeline(store *query.Store, log *aardlog.Logger, runID uuid.UUID) *Pipeline {
	return &Pipeline{store: store, log: log, runID: runID}
}

func (p *Pipeline) phase(name string) *aardlog.Phase {
	if p.log == nil {
		return nil
	}
	return p.log.Phase(name).With(zap.String("run_id", p.runID.String()))
}

// Run instantiates and drives every plugin named in plugins, in order, and
// returns each one's final buffer (or the error that aborted it — a
// per-plugin error never aborts the rest of the run).
func (p *Pipeline) Run(plugins []aardcfg.PluginConfig) ([]PluginOutcome, error) {
	api := plugin.NewApi(p.store)
	pre := plugin.NewPreprocessing()

	instances := make([]instance, len(plugins))
	errs := make([]error, len(plugins))

	for i, pc := range plugins {
		ctor, ok := registry[pc.ID]
		if !ok {
			return nil, fmt.Errorf("orchestrator: unknown plugin %q", pc.ID)
		}
		inst := instance{name: pc.ID, pl: ctor(), res: plugin.NewResults(0)}
		if initer, ok := inst.pl.(plugin.Initializer); ok {
			if err := initer.Init(api, pc.Options); err != nil {
				if ph := p.phase("plugin:" + pc.ID); ph != nil {
					ph.Warn("init failed", zap.Error(err))
				}
				errs[i] = err
				inst.pl = nil
			}
		}
		instances[i] = inst
	}

	for _, inst := range instances {
		if inst.pl == nil {
			continue
		}
		if runner, ok := inst.pl.(plugin.PreRunner); ok {
			if err := runner.RunPre(api, pre); err != nil {
				if ph := p.phase("plugin:" + inst.name); ph != nil {
					ph.Warn("run_pre failed", zap.Error(err))
				}
			}
		}
	}

	for _, inst := range instances {
		if inst.pl == nil {
			continue
		}
		if runner, ok := inst.pl.(plugin.LocRunner); ok {
			runner.RunLoc(api, inst.res, pre)
			if ph := p.phase("plugin:" + inst.name); ph != nil {
				ph.Info("emitted results", zap.Int("count", inst.res.Len()))
			}
		}
	}

	prior := make(map[string]*plugin.Results, len(instances))
	for _, inst := range instances {
		if inst.pl != nil {
			if runner, ok := inst.pl.(plugin.PostRunner); ok {
				runner.RunPost(api, prior, inst.res)
			}
		}
		prior[inst.name] = inst.res
	}

	out := make([]PluginOutcome, len(instances))
	for i, inst := range instances {
		out[i] = PluginOutcome{Name: inst.name, Results: inst.res, Err: errs[i]}
	}
	return out, nil
}
