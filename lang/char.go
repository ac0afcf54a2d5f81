package lang

// Character classification

// IsAlpha reports whether r is an ASCII letter or underscore.
func IsAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// IsAlphanumeric reports whether r is an ASCII letter, decimal digit, or
// underscore.
func IsAlphanumeric(r rune) bool { return IsAlpha(r) || IsDecDigit(r) }

// IsDecDigit reports whether r is a decimal digit.
func IsDecDigit(r rune) bool { return r >= '0' && r <= '9' }

// IsHexDigit reports whether r is a hexadecimal digit.
func IsHexDigit(r rune) bool {
	return IsDecDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// IsOctDigit reports whether r is an octal digit.
func IsOctDigit(r rune) bool { return r >= '0' && r <= '7' }

// IsSpace reports whether r is inline whitespace (space or tab).
func IsSpace(r rune) bool { return r == ' ' || r == '\t' }

// IsBlank reports whether r is any whitespace, including line breaks.
func IsBlank(r rune) bool { return IsSpace(r) || r == '\n' || r == '\r' }

// Matches returns a predicate that reports whether a rune satisfies pred.
// A nil pred matches nothing.
func Matches(pred func(rune) bool) func(rune) bool {
	return func(r rune) bool {
		return pred != nil && pred(r)
	}
}
