// Package settings implements the global/local merge rule shared by every
// prober and notifier kind: config()-time normalization of durations,
// counts, and strategy-valued fields against global defaults.
package settings

import "cmp"

// Normalize applies the uniform override rule: given a global default, a
// local (per-entity) value, a sentinel meaning "unset", and a hard
// default, it prefers local, falls back to global, and finally falls
// back to def. It is invoked during config() only, never at runtime.
func Normalize[T cmp.Ordered](global, local, sentinel, def T) T {
	if local > sentinel {
		return local
	}
	if global > sentinel {
		return global
	}
	return def
}
