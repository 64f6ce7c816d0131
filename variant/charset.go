package variant

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// NormalizeCharset validates name against the IANA charset registry and
// returns its canonical lowercase form. String's charset constructors
// use this to store a consistent name regardless of how a caller spells
// it ("UTF-8", "utf8", "Utf-8" all land on the same stored value), and
// the socket layer's SetDefaultStringEncoding directive uses it to
// reject nonsense encoding names before they ever reach the wire.
func NormalizeCharset(name string) (string, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return "", fmt.Errorf("variant: unknown charset %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return "", fmt.Errorf("variant: charset %q has no canonical IANA name", name)
	}
	return strings.ToLower(canonical), nil
}

// normalizeCharsetOrKeep is NormalizeCharset with a passthrough fallback,
// for the String constructors: an unrecognized charset name (for example
// plankton's own "none" sentinel, which isn't an IANA encoding at all)
// is stored as given rather than rejected, since these constructors have
// no error return to reject it through.
func normalizeCharsetOrKeep(charset string) string {
	canonical, err := NormalizeCharset(charset)
	if err != nil {
		return charset
	}
	return canonical
}
