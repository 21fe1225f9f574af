//go:build production

package debugcheck

// Assert is a no-op in production builds: the same boundary condition
// the debug build panics on is silently ignored here instead. The
// disposition for a given condition is fixed at compile time and never
// varies at runtime.
func Assert(cond bool, format string, args ...any) {}
