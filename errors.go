// Package srcmdl parses Valve Source-engine model files (.mdl/.vvd/.dx90.vtx)
// into a unified read-only object graph and assembles them into a joined
// Model. The three wire formats are parsed independently by the internal/mdl,
// internal/vvd and internal/vtx packages; this package is the thin public
// facade plus the cross-file assembler (spec.md §4.G).
package srcmdl

import "srcmdl/internal/srcerr"

// Error is the single tagged error value every parse/assemble step in this
// module returns. Callers switch on Kind rather than string-matching.
type Error = srcerr.Error

// Kind enumerates the flat set of failure modes a parse or assemble can
// produce.
type Kind = srcerr.Kind

const (
	KindIO                      = srcerr.KindIO
	KindEof                     = srcerr.KindEof
	KindOutOfBounds             = srcerr.KindOutOfBounds
	KindStringNonUTF8           = srcerr.KindStringNonUTF8
	KindStringNotNullTerminated = srcerr.KindStringNotNullTerminated
)
