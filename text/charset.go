package text

import "github.com/goto-10/plankton/variant"

// NormalizeCharset validates name against the IANA charset registry and
// returns its canonical lowercase form. It delegates to
// variant.NormalizeCharset, the charset constructors' own validator, so
// there is exactly one canonicalization of a given charset name across
// the module.
func NormalizeCharset(name string) (string, error) {
	return variant.NormalizeCharset(name)
}
