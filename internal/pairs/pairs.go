// Package pairs canonicalizes unordered identity pairs. The match registry
// keys its records by the canonical pair, and the realtime layer derives
// conversation room names from it, so both participants always compute the
// same key regardless of argument order.
package pairs

// Canonical returns the two identities in lexicographic order.
func Canonical(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Key joins the canonical pair with an underscore.
func Key(a, b string) string {
	lo, hi := Canonical(a, b)
	return lo + "_" + hi
}
