//go:build !production

// Package debugcheck centralizes boundary-violation assertions: OAM DMA
// writing outside OAM, an HDMA transfer writing outside VRAM. These
// panic in test/debug builds and are silently ignored in production
// builds, selected at compile time via the production build tag rather
// than a runtime flag, so the disposition can never drift between call
// sites.
package debugcheck

import "fmt"

// Assert panics with a formatted message when cond is false. Call sites
// are boundary checks only (DMA/HDMA ranges); never business logic that
// must also run in a production build.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
