package glob

import (
	"regexp"
	"strings"
)

// namedClasses maps POSIX class names to Unicode-aware regexp class bodies.
// xdigit stays ASCII: hexadecimal digits have no wider Unicode category.
var namedClasses = map[string]string{
	"alnum":  `\p{L}\p{N}`,
	"alpha":  `\p{L}`,
	"blank":  `\t\p{Zs}`,
	"cntrl":  `\p{Cc}`,
	"digit":  `\p{Nd}`,
	"lower":  `\p{Ll}`,
	"space":  `\t\n\v\f\r\p{Z}`,
	"upper":  `\p{Lu}`,
	"xdigit": `0-9A-Fa-f`,
}

// translate renders scanned tokens as an anchored regexp. "?" and "*" are
// compiled with '/' excluded so wildcards never cross a path boundary, and
// negated classes exclude '/' as well, matching shell pathname semantics.
func translate(tokens []token) (*regexp.Regexp, error) {
	var b strings.Builder

	b.WriteByte('^')

	for _, tok := range tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(regexp.QuoteMeta(tok.lit))
		case tokenAnyChar:
			b.WriteString(`[^/]`)
		case tokenAnyRun:
			b.WriteString(`[^/]*`)
		case tokenClass:
			writeClass(&b, tok.class)
		}
	}

	b.WriteByte('$')

	re, err := regexp.Compile(b.String())
	if err != nil {
		// Scanned tokens always render to valid RE2; a failure here is a bug
		// in the translator, not in the user's pattern.
		return nil, syntaxErrorf(0, "internal: generated regexp invalid: %v", err)
	}

	return re, nil
}

func writeClass(b *strings.Builder, class classExpr) {
	b.WriteByte('[')

	if class.negated {
		b.WriteByte('^')
	}

	for _, item := range class.items {
		if item.named != "" {
			b.WriteString(namedClasses[item.named])
			continue
		}

		b.WriteString(escapeClassRune(item.lit))
	}

	if class.negated {
		b.WriteByte('/')
	}

	b.WriteByte(']')
}

// escapeClassRune escapes a literal rune for use inside a regexp class.
// '-' is escaped too: the glob grammar has no ranges, so a dash is literal.
func escapeClassRune(r rune) string {
	switch r {
	case '\\', ']', '^', '-', '[':
		return `\` + string(r)
	default:
		return string(r)
	}
}
