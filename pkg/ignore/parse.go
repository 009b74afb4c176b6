package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sumatoshi-tech/gitimpact/pkg/glob"
)

// ErrBadRule reports a malformed line in an ignore rule file.
var ErrBadRule = errors.New("ignore: malformed ignore rule")

// ParseRules reads ignore rules from r, one per line:
//
//	[<hash-prefix>] [!]<glob>
//
// A single field applies the glob to every commit; with two fields the
// first is a hexadecimal commit-hash prefix restricting the rule to
// commits whose hash starts with it. A leading '!' on the glob negates
// the rule. Blank lines and lines starting with '#' are skipped. Later
// lines override earlier ones during evaluation.
func ParseRules(r io.Reader) (Ruleset, error) {
	scanner := bufio.NewScanner(r)

	var rules Ruleset

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
		return nil, fmt.Errorf("read ignore rules: %w", err)
	}

	return rules, nil
}

// LoadRules reads ignore rules from the file at path.
func LoadRules(path string) (Ruleset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ignore rules: %w", err)
	}
	defer file.Close()

	rules, err := ParseRules(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

func parseRule(text string) (Rule, error) {
	fields := strings.Fields(text)

	var (
		rule    Rule
		pattern string
	)

	switch len(fields) {
	case 1:
		pattern = fields[0]
	case 2:
		if !isHex(fields[0]) {
			return Rule{}, fmt.Errorf("%w: commit prefix %q is not hexadecimal", ErrBadRule, fields[0])
		}

		rule.CommitPrefix = fields[0]
		pattern = fields[1]
	default:
		return Rule{}, fmt.Errorf("%w: want [<hash-prefix>] [!]<glob>", ErrBadRule)
	}

	if after, ok := strings.CutPrefix(pattern, "!"); ok {
		rule.Negate = true
		pattern = after
	}

	if pattern == "" {
		return Rule{}, fmt.Errorf("%w: empty pattern", ErrBadRule)
	}

	compiled, err := glob.Compile(pattern)
	if err != nil {
		return Rule{}, err
	}

	rule.Pattern = compiled

	return rule, nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}
