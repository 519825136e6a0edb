package glossary

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Glossary applies user-defined deterministic substitutions to translated
// text: fixed terminology, honorifics, spelling preferences. Entries are
// loaded from a plain text file, one per line:
//
//	literal entries      bhaat => rice
//	regex entries        s/\bdada\b/elder brother/g
//
// Lines starting with # are comments. A missing file yields an empty
// glossary; a malformed file is a configuration error.
type Glossary struct {
	entries   []entry
	loopLimit int
}

type entry interface {
	apply(input string) (output string, changed bool)
}

// Load reads and compiles a glossary file.
func Load(path string, loopLimit int) (*Glossary, error) {
	if loopLimit <= 0 {
		loopLimit = 30
	}
	if strings.TrimSpace(path) == "" {
		return &Glossary{loopLimit: loopLimit}, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Glossary{loopLimit: loopLimit}, nil
		}
		return nil, fmt.Errorf("failed to read glossary %q: %w", path, err)
	}

	entries, err := parseEntries(string(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse glossary %q: %w", path, err)
	}
	return &Glossary{entries: entries, loopLimit: loopLimit}, nil
}

// Apply rewrites text until no entry matches or the iteration limit is hit.
func (g *Glossary) Apply(text string) (string, error) {
	if len(g.entries) == 0 {
		return text, nil
	}

	result := text
	for i := 0; i < g.loopLimit; i++ {
		changed := false
		for _, e := range g.entries {
			next, entryChanged := e.apply(result)
			if entryChanged {
				result = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return result, nil
}

func parseEntries(contents string) ([]entry, error) {
	lines := strings.Split(contents, "\n")
	entries := make([]entry, 0, len(lines))

	for index, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var (
			e   entry
			err error
		)
		switch {
		case looksLikeRegexEntry(line):
			e, err = parseRegexEntry(line)
		case strings.Contains(line, "=>"):
			e, err = parseLiteralEntry(line)
		default:
			err = errors.New("unsupported glossary entry format")
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", index+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

type literalEntry struct {
	replacement string
	re          *regexp.Regexp
}

func parseLiteralEntry(line string) (entry, error) {
	parts := strings.SplitN(line, "=>", 2)
	from := strings.TrimSpace(parts[0])
	to := strings.TrimSpace(parts[1])
	if from == "" {
		return nil, errors.New("glossary term cannot be empty")
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(from))
	if err != nil {
		return nil, fmt.Errorf("invalid glossary term: %w", err)
	}
	return literalEntry{replacement: to, re: re}, nil
}

func (e literalEntry) apply(input string) (string, bool) {
	output := e.re.ReplaceAllString(input, e.replacement)
	return output, output != input
}

type regexEntry struct {
	re          *regexp.Regexp
	replacement string
	global      bool
}

func parseRegexEntry(line string) (entry, error) {
	delim := line[1]

	pattern, pos, err := parseDelimited(line, 2, delim)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	replacement, pos, err := parseDelimited(line, pos, delim)
	if err != nil {
		return nil, fmt.Errorf("invalid replacement: %w", err)
	}

	global := false
	prefixFlags := "i" // case-insensitive unless a flag says otherwise
	for _, flag := range strings.TrimSpace(line[pos:]) {
		switch flag {
		case 'i':
		case 'g':
			global = true
		case 'm':
			prefixFlags += "m"
		case 's':
			prefixFlags += "s"
		case ' ':
		default:
			return nil, fmt.Errorf("unsupported flag %q", flag)
		}
	}

	re, err := regexp.Compile("(?" + prefixFlags + ")" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	return regexEntry{re: re, replacement: replacement, global: global}, nil
}

func (e regexEntry) apply(input string) (string, bool) {
	if e.global {
		output := e.re.ReplaceAllString(input, e.replacement)
		return output, output != input
	}

	loc := e.re.FindStringIndex(input)
	if loc == nil {
		return input, false
	}
	segment := input[loc[0]:loc[1]]
	output := input[:loc[0]] + e.re.ReplaceAllString(segment, e.replacement) + input[loc[1]:]
	return output, output != input
}

func parseDelimited(line string, start int, delim byte) (string, int, error) {
	if start >= len(line) {
		return "", 0, errors.New("unexpected end of expression")
	}

	var builder strings.Builder
	escaped := false
	for index := start; index < len(line); index++ {
		char := line[index]
		if escaped {
			builder.WriteByte(char)
			escaped = false
			continue
		}
		if char == '\\' {
			escaped = true
			builder.WriteByte(char)
			continue
		}
		if char == delim {
			return builder.String(), index + 1, nil
		}
		builder.WriteByte(char)
	}
	return "", 0, errors.New("unterminated expression")
}

func isAlphaNumericOrSpace(char byte) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9') ||
		char == ' ' || char == '\t'
}

func looksLikeRegexEntry(line string) bool {
	return len(line) > 1 && line[0] == 's' && !isAlphaNumericOrSpace(line[1])
}
