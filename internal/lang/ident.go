package lang

import "golang.org/x/text/unicode/norm"

// NormalizeIdent canonicalizes an identifier to NFKC, matching the host
// language's identifier semantics so that visually identical names bind the
// same variable. ASCII identifiers pass through unchanged.
func NormalizeIdent(s string) string {
	if isASCII(s) {
		return s
	}
	return norm.NFKC.String(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
