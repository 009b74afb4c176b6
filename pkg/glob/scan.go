package glob

import "unicode/utf8"

// tokenKind tags the scanner output.
type tokenKind int

const (
	// tokenLiteral is a run of characters with no glob metacharacters.
	tokenLiteral tokenKind = iota
	// tokenAnyChar is "?": exactly one character other than '/'.
	tokenAnyChar
	// tokenAnyRun is "*": zero or more characters, none of them '/'.
	tokenAnyRun
	// tokenClass is a bracket expression "[...]".
	tokenClass
)

// token is one scanned element of a glob pattern.
type token struct {
	lit   string
	class classExpr
	kind  tokenKind
	off   int
}

// classExpr is the parsed body of a bracket expression.
type classExpr struct {
	items   []classItem
	negated bool
}

// classItem is one member of a bracket expression: either a single literal
// rune or a POSIX named class such as "digit".
type classItem struct {
	named string
	lit   rune
}

// scan tokenizes a glob pattern left to right. The entire input is consumed
// or an error naming the offending offset is returned.
func scan(pattern string) ([]token, error) {
	var tokens []token

	pos := 0
	for pos < len(pattern) {
		switch pattern[pos] {
		case '?':
			tokens = append(tokens, token{kind: tokenAnyChar, off: pos})
			pos++
		case '*':
			tokens = append(tokens, token{kind: tokenAnyRun, off: pos})
			pos++
		case '[':
			class, next, err := scanClass(pattern, pos)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, token{kind: tokenClass, off: pos, class: class})
			pos = next
		default:
			lit, next := scanLiteral(pattern, pos)
			tokens = append(tokens, token{kind: tokenLiteral, off: pos, lit: lit})
			pos = next
		}
	}

	return tokens, nil
}

// scanLiteral consumes the longest run containing no metacharacters.
func scanLiteral(pattern string, start int) (string, int) {
	end := start
	for end < len(pattern) {
		c := pattern[end]
		if c == '?' || c == '*' || c == '[' {
			break
		}

		end++
	}

	return pattern[start:end], end
}

// scanClass parses a bracket expression starting at the '[' at offset start.
// It returns the parsed class and the offset just past the closing ']'.
func scanClass(pattern string, start int) (classExpr, int, error) {
	var class classExpr

	pos := start + 1

	if pos < len(pattern) && pattern[pos] == '!' {
		class.negated = true
		pos++
	}

	// A ']' directly after '[' or '[!' is a literal member, not a terminator.
	if pos < len(pattern) && pattern[pos] == ']' {
		class.items = append(class.items, classItem{lit: ']'})
		pos++
	}

	for pos < len(pattern) {
		switch {
		case pattern[pos] == ']':
			return class, pos + 1, nil
		case pattern[pos] == '/':
			return classExpr{}, 0, syntaxErrorf(pos, "'/' is not allowed inside a character class")
		case hasBracketPrefix(pattern, pos, ':'):
			name, next, err := scanBracketPair(pattern, pos, ':')
			if err != nil {
				return classExpr{}, 0, err
			}

			if _, known := namedClasses[name]; !known {
				return classExpr{}, 0, unsupportedError(pos, "character class name "+quote(name))
			}

			class.items = append(class.items, classItem{named: name})
			pos = next
		case hasBracketPrefix(pattern, pos, '.'):
			_, _, err := scanBracketPair(pattern, pos, '.')
			if err != nil {
				return classExpr{}, 0, err
			}

			return classExpr{}, 0, unsupportedError(pos, "collating symbol")
		case hasBracketPrefix(pattern, pos, '='):
			_, _, err := scanBracketPair(pattern, pos, '=')
			if err != nil {
				return classExpr{}, 0, err
			}

			return classExpr{}, 0, unsupportedError(pos, "equivalence class")
		default:
			r, size := utf8.DecodeRuneInString(pattern[pos:])
			class.items = append(class.items, classItem{lit: r})
			pos += size
		}
	}

	return classExpr{}, 0, syntaxErrorf(start, "unterminated character class")
}

// hasBracketPrefix reports whether pattern[pos:] starts a "[x" digraph for
// the given marker byte (':' for named classes, '.' collating, '=' equivalence).
func hasBracketPrefix(pattern string, pos int, marker byte) bool {
	return pattern[pos] == '[' && pos+1 < len(pattern) && pattern[pos+1] == marker
}

// scanBracketPair consumes "[<marker>body<marker>]" and returns the body and
// the offset just past the closing "]".
func scanBracketPair(pattern string, start int, marker byte) (string, int, error) {
	body := start + 2

	for pos := body; pos+1 < len(pattern); pos++ {
		if pattern[pos] == marker && pattern[pos+1] == ']' {
			return pattern[body:pos], pos + 2, nil
		}
	}

	return "", 0, syntaxErrorf(start, "unterminated %q construct", pattern[start:start+2])
}

func quote(s string) string {
	return "'" + s + "'"
}
