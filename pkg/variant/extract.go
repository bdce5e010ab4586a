// Package variant implements the shipping A/B test decision: extracting
// the variant token embedded in a delivery option title and deciding,
// per cart, which options to hide so a shopper only sees the option set
// for their assigned experiment arm.
package variant

// ExtractSuffix parses a delivery option title for a trailing variant
// tag of the form " (X)" where X is a single ASCII alphanumeric
// character, e.g. "Standard Shipping (A)" → "A". Only the very end of
// the title is considered; earlier parentheticals are ignored.
//
// The function is total: any title that does not match exactly — too
// short, multi-character tag like "(AB)", empty "()", missing the space
// before the opening paren — yields ok=false, never an error.
func ExtractSuffix(title string) (token string, ok bool) {
	// Need at least " (X)".
	if len(title) < 4 {
		return "", false
	}

	n := len(title)
	if title[n-1] != ')' || title[n-3] != '(' || title[n-4] != ' ' {
		return "", false
	}

	// A multi-byte character at the token position fails here: its bytes
	// are all >= 0x80.
	if !isAlnum(title[n-2]) {
		return "", false
	}

	return title[n-2 : n-1], true
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
