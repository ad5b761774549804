// Package invariants learns per-access value invariants from passing
// tests, then flags statements in a failing test whose observed values
// break them. The per-access state machine (Empty -> SingleValue -> Range
// -> None) starts cheap and specific, widens only once reality disagrees,
// and once a value is truly unpredictable stops trying to characterize it.
package invariants

import (
	"fmt"
	"strings"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/arena"
)

// viewKey canonicalizes an Access by stripping ArrayLike index lists, so
// a[i] and a[j] collapse to the same learned state: Structural still
// descends into both Base and Field, matching aarddata's uses-chain rule,
// but ArrayLike only descends into Base.
func viewKey(accesses *arena.Arena[aarddata.Access], h aarddata.AccessHandle) string {
	acc := accesses.Get(h)
	var b strings.Builder
	switch acc.Kind {
	case aarddata.AccessScalar:
		fmt.Fprintf(&b, "S:%d", acc.VarID)
	case aarddata.AccessStructural:
		b.WriteString("T:")
		b.WriteString(viewKey(accesses, acc.Base))
		b.WriteByte(':')
		b.WriteString(viewKey(accesses, acc.Field))
	case aarddata.AccessArrayLike:
		b.WriteString("A:")
		b.WriteString(viewKey(accesses, acc.Base))
	}
	return b.String()
}
