package orchestrator

import (
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/plugins/coalesce"
	"github.com/kolkov/aardwolf/internal/plugins/invariants"
	"github.com/kolkov/aardwolf/internal/plugins/irrelevant"
	"github.com/kolkov/aardwolf/internal/plugins/probgraph"
	"github.com/kolkov/aardwolf/internal/plugins/sbfl"
)

// registry maps a plugin id from the config file to a constructor for a
// fresh instance. Every built-in plugin registers itself here.
var registry = map[string]func() plugin.Plugin{
	"sbfl":       func() plugin.Plugin { return sbfl.New() },
	"invariants": func() plugin.Plugin { return invariants.New() },
	"probgraph":  func() plugin.Plugin { return probgraph.New() },
	"coalesce":   func() plugin.Plugin { return coalesce.New() },
	"irrelevant": func() plugin.Plugin { return irrelevant.New() },
}
