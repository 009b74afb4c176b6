package identity

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrBadRule reports a malformed line in a rename rule file.
var ErrBadRule = errors.New("identity: malformed rename rule")

// minRuleFields is style, source field, match, the arrow and one destination.
const minRuleFields = 5

// ParseRules reads rename rules from r, one rule per line:
//
//	<style> <field> <match> -> <field>=<replacement> [<field>=<replacement> ...]
//
// where <style> is exact, ifold or regex and <field> is name or email.
// Tokens containing whitespace are double-quoted; inside quotes a backslash
// escapes the next character, outside quotes backslashes are literal so
// regex patterns survive unescaped. Blank lines and lines starting with '#'
// are skipped. Regex match expressions are compiled eagerly so rule
// application cannot fail later.
func ParseRules(r io.Reader) ([]RenameRule, error) {
	scanner := bufio.NewScanner(r)

	var rules []RenameRule

	line := 0
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rule, err := parseRule(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rules = append(rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rename rules: %w", err)
	}

	return rules, nil
}

// LoadRules reads rename rules from the file at path.
func LoadRules(path string) ([]RenameRule, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rename rules: %w", err)
	}
	defer file.Close()

	rules, err := ParseRules(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

func parseRule(text string) (RenameRule, error) {
	fields, err := splitFields(text)
	if err != nil {
		return RenameRule{}, err
	}

	if len(fields) < minRuleFields {
		return RenameRule{}, fmt.Errorf(
			"%w: want <style> <field> <match> -> <field>=<replacement>", ErrBadRule)
	}

	style, err := parseStyle(fields[0])
	if err != nil {
		return RenameRule{}, err
	}

	field, err := parseField(fields[1])
	if err != nil {
		return RenameRule{}, err
	}

	if fields[3] != "->" {
		return RenameRule{}, fmt.Errorf("%w: expected '->' after match, got %q", ErrBadRule, fields[3])
	}

	rule := RenameRule{Style: style, Field: field, Match: fields[2]}

	for _, tok := range fields[4:] {
		dest, err := parseDestination(tok)
		if err != nil {
			return RenameRule{}, err
		}

		rule.Destinations = append(rule.Destinations, dest)
	}

	if err := rule.compile(); err != nil {
		return RenameRule{}, err
	}

	return rule, nil
}

func parseStyle(s string) (Style, error) {
	switch s {
	case "exact":
		return StyleExact, nil
	case "ifold":
		return StyleFold, nil
	case "regex":
		return StyleRegex, nil
	default:
		return 0, fmt.Errorf("%w: unknown style %q", ErrBadRule, s)
	}
}

func parseField(s string) (Field, error) {
	switch s {
	case "name":
		return FieldName, nil
	case "email":
		return FieldEmail, nil
	default:
		return 0, fmt.Errorf("%w: unknown field %q", ErrBadRule, s)
	}
}

func parseDestination(tok string) (Destination, error) {
	name, value, ok := strings.Cut(tok, "=")
	if !ok {
		return Destination{}, fmt.Errorf("%w: destination %q is not <field>=<replacement>", ErrBadRule, tok)
	}

	field, err := parseField(name)
	if err != nil {
		return Destination{}, err
	}

	return Destination{Field: field, Replacement: value}, nil
}

// splitFields splits a rule line into whitespace-separated tokens honoring
// double quotes.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		started bool
		quoted  bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case quoted && c == '\\' && i+1 < len(line):
			i++
			current.WriteByte(line[i])
		case c == '"':
			quoted = !quoted
			started = true
		case !quoted && (c == ' ' || c == '\t'):
			if started {
				fields = append(fields, current.String())
				current.Reset()

				started = false
			}
		default:
			current.WriteByte(c)

			started = true
		}
	}

	if quoted {
		return nil, fmt.Errorf("%w: unterminated quote", ErrBadRule)
	}

	if started {
		fields = append(fields, current.String())
	}

	return fields, nil
}
