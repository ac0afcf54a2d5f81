package lang

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// stringLiteral parses a double-quoted string, decoding escape sequences.
//
// Recognized escapes are \t \n \r \b \f \" \\ \/, \u{X} with one to six hex
// digits, and \uXXXX. A backslash followed by whitespace discards the
// whitespace run, so long literals can be wrapped across lines. Text that is
// not valid UTF-8 is rejected.
func stringLiteral(s Span) (Span, BasicTypeExpression, error) {
	if s.Peek() != '"' {
		return s, BasicTypeExpression{}, expected(s, "string")
	}

	var (
		text strings.Builder
		rest = s.Advance(1)
	)

	for {
		switch r := rest.Peek(); {
		case rest.IsEmpty():
			return s, BasicTypeExpression{}, expected(rest, `"`)

		case r == '"':
			rest = rest.Advance(1)

			return rest, BasicTypeExpression{
				Kind:     BasicString,
				Position: s.Take(rest.Offset - s.Offset),
				String:   text.String(),
			}, nil

		case r == '\\':
			next, err := escape(rest, &text)
			if err != nil {
				return s, BasicTypeExpression{}, err
			}

			rest = next

		default:
			// Copy the literal run up to the next quote or backslash in one step.
			n := strings.IndexAny(rest.Fragment, `"\`)
			if n < 0 {
				n = rest.Len()
			}

			if bad := invalidUTF8(rest.Fragment[:n]); bad >= 0 {
				return s, BasicTypeExpression{}, expected(rest.Advance(bad), "valid UTF-8")
			}

			text.WriteString(rest.Fragment[:n])
			rest = rest.Advance(n)
		}
	}
}

// invalidUTF8 returns the byte index of the first invalid UTF-8 sequence in
// text, or -1 if text is valid.
func invalidUTF8(text string) int {
	if utf8.ValidString(text) {
		return -1
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}

		i += size
	}

	return -1
}

var simpleEscapes = map[rune]rune{
	't':  '\t',
	'n':  '\n',
	'r':  '\r',
	'b':  '\b',
	'f':  '\f',
	'"':  '"',
	'\\': '\\',
	'/':  '/',
}

// escape decodes one escape sequence starting at the backslash in s.
func escape(s Span, text *strings.Builder) (Span, error) {
	seq := s.Advance(1)
	r := seq.Peek()

	if dec, ok := simpleEscapes[r]; ok {
		text.WriteRune(dec)

		return seq.Advance(1), nil
	}

	switch {
	case r == 'u':
		return unicodeEscape(s, seq.Advance(1), text)

	case IsBlank(r):
		return blank0(seq), nil
	}

	return s, expected(seq, "escape sequence")
}

// unicodeEscape decodes the digits of \u{X…} or \uXXXX. at is the backslash
// and s the input following the 'u'.
func unicodeEscape(at, s Span, text *strings.Builder) (Span, error) {
	braced := s.Peek() == '{'
	if braced {
		s = s.Advance(1)
	}

	rest, digits := takeWhile(s, IsHexDigit)

	switch {
	case braced && (digits.Len() < 1 || digits.Len() > 6):
		return at, expected(s, "1 to 6 hex digits")

	case braced && rest.Peek() != '}':
		return at, expected(rest, "}")

	case braced:
		rest = rest.Advance(1)

	case digits.Len() < 4:
		return at, expected(s, "4 hex digits")

	default:
		rest, digits = s.Advance(4), s.Take(4)
	}

	code, err := strconv.ParseUint(digits.Fragment, 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return at, expected(at, "valid unicode code point")
	}

	text.WriteRune(rune(code))

	return rest, nil
}

// numberLiteral parses a decimal, hexadecimal (0x), or octal (0o) integer,
// or a decimal float with optional fraction and exponent.
//
// The literal must end on a word boundary. An integer that does not fit in
// 64 bits is a fatal error.
func numberLiteral(s Span) (Span, BasicTypeExpression, error) {
	if !IsDecDigit(s.Peek()) {
		return s, BasicTypeExpression{}, expected(s, "number")
	}

	var (
		rest   Span
		digits string
		base   = 10
		float  bool
	)

	switch {
	case s.HasPrefix("0x") || s.HasPrefix("0X"):
		base = 16
		rest, digits = hexDigits(s.Advance(2))

	case s.HasPrefix("0o") || s.HasPrefix("0O"):
		base = 8
		rest, digits = octDigits(s.Advance(2))

	default:
		rest, float = decimal(s)
		digits = s.Fragment[:rest.Offset-s.Offset]
	}

	if digits == "" || IsAlphanumeric(rest.Peek()) {
		return s, BasicTypeExpression{}, expected(s, "number")
	}

	lit := BasicTypeExpression{Position: s.Take(rest.Offset - s.Offset)}

	if float {
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return s, BasicTypeExpression{}, rangeError(s, "float literal")
		}

		lit.Kind, lit.Float = BasicFloat, f

		return rest, lit, nil
	}

	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return s, BasicTypeExpression{}, rangeError(s, "number literal")
	}

	lit.Kind, lit.Number = BasicNumber, n

	return rest, lit, nil
}

func hexDigits(s Span) (Span, string) {
	rest, tok := takeWhile(s, IsHexDigit)

	return rest, tok.Fragment
}

func octDigits(s Span) (Span, string) {
	rest, tok := takeWhile(s, IsOctDigit)

	return rest, tok.Fragment
}

// decimal scans digits with an optional fraction and exponent, reporting
// whether either was present.
func decimal(s Span) (Span, bool) {
	rest, _ := takeWhile(s, IsDecDigit)
	float := false

	if rest.Peek() == '.' && IsDecDigit(rest.Advance(1).Peek()) {
		rest, _ = takeWhile(rest.Advance(1), IsDecDigit)
		float = true
	}

	if r := rest.Peek(); r == 'e' || r == 'E' {
		exp := rest.Advance(1)
		if r := exp.Peek(); r == '+' || r == '-' {
			exp = exp.Advance(1)
		}

		if IsDecDigit(exp.Peek()) {
			rest, _ = takeWhile(exp, IsDecDigit)
			float = true
		}
	}

	return rest, float
}

func rangeError(s Span, what string) *SyntaxError {
	return &SyntaxError{
		Kind:     KindCommitted,
		Position: s.Position(),
		Expected: []string{"value in range"},
		Context:  what,
		Found:    foundText(s),
	}
}

// boolLiteral parses true or false.
func boolLiteral(s Span) (Span, BasicTypeExpression, error) {
	for _, kw := range []string{keywordTrue, keywordFalse} {
		if rest, tok, err := keyword(kw)(s); err == nil {
			return rest, BasicTypeExpression{
				Kind:     BasicBool,
				Position: tok,
				Bool:     kw == keywordTrue,
			}, nil
		}
	}

	return s, BasicTypeExpression{}, expected(s, keywordTrue, keywordFalse)
}

// basicLiteral parses a string, number, or bool literal.
var basicLiteral = alt[BasicTypeExpression](
	stringLiteral,
	numberLiteral,
	boolLiteral,
)
