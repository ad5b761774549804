// Package plugin defines the contract every localization plugin
// implements — init, and the optional run_pre/run_loc/run_post hooks — plus
// the shared types they exchange: LocalizationItem, the bounded Results
// ranking, Rationale chunks, and Preprocessing relevance state.
package plugin

import "github.com/kolkov/aardwolf/internal/query"

// Api is the read-only surface a plugin gets at every hook: the query
// store for on-demand derivations. It is a thin alias today, kept as an
// interface so a future test double can stand in without depending on
// query.Store directly.
type Api interface {
	Store() *query.Store
}

type storeApi struct{ store *query.Store }

// NewApi wraps a query.Store as the Api a plugin receives.
func NewApi(store *query.Store) Api { return storeApi{store: store} }

func (a storeApi) Store() *query.Store { return a.store }

// Plugin is the full contract. A plugin that has nothing to do in a given
// hook simply doesn't implement the corresponding optional interface;
// the orchestrator type-asserts for each one.
type Plugin interface {
	Name() string
}

// Initializer validates a plugin's options at construction time.
type Initializer interface {
	Init(api Api, opts map[string]any) error
}

// PreRunner marks statements/tests irrelevant before any plugin localizes.
type PreRunner interface {
	RunPre(api Api, pre *Preprocessing) error
}

// LocRunner emits LocalizationItems into the bounded ranked buffer.
type LocRunner interface {
	RunLoc(api Api, results *Results, pre *Preprocessing)
}

// PostRunner consumes earlier plugins' final output to emit its own.
type PostRunner interface {
	RunPost(api Api, prior map[string]*Results, results *Results)
}
