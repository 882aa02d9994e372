// Package fingerprint computes an order-independent digest of a layout for
// visited-state deduplication during search.
package fingerprint

import (
	"github.com/cespare/xxhash"

	"github.com/pourbot/pourbot/layout"
)

// Of hashes the layout's canonical form. Because the canonical form sorts
// tube renderings, any permutation of structurally identical tubes produces
// the same digest. Equal digests are treated as equal states by the solver;
// there is no fallback to full equality on collision, the same accepted
// trade-off as keying a transposition table on a 64-bit hash.
func Of(l *layout.Layout) uint64 {
	return xxhash.Sum64String(l.CanonicalForm())
}
