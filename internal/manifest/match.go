package manifest

import (
	"fmt"
	"path"
	"strings"
)

// OwnsPath reports whether the output-relative path rel matches one of the
// component's owned path patterns. rel uses forward slashes.
//
// A trailing "/**" matches the named directory itself as well as everything
// under it, so pruning "app/worker/**" removes the whole worker subtree.
func (c *Component) OwnsPath(rel string) bool {
	for _, pattern := range c.OwnedPaths {
		if MatchPath(pattern, rel) {
			return true
		}
	}
	return false
}

// Tokens returns the literal strings the validator searches for when this
// component is disabled. Declared reference_tokens win; otherwise tokens are
// derived from the owned path stems (the pattern up to the first glob
// metacharacter, e.g. "app/worker/**" becomes "app/worker"), plus the dotted
// module form ("app.worker") that import statements use.
func (c *Component) Tokens() []string {
	if len(c.ReferenceTokens) > 0 {
		return c.ReferenceTokens
	}

	var tokens []string
	seen := make(map[string]bool)
	add := func(token string) {
		if token != "" && !seen[token] {
			seen[token] = true
			tokens = append(tokens, token)
		}
	}

	for _, pattern := range c.OwnedPaths {
		stem := patternStem(pattern)
		add(stem)
		if strings.Contains(stem, "/") {
			add(strings.ReplaceAll(stem, "/", "."))
		}
	}
	return tokens
}

// MatchPath matches a slash-separated glob pattern against a relative path.
// Pattern segments use path.Match syntax; a "**" segment matches zero or
// more path segments.
func MatchPath(pattern, rel string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

// CheckPattern validates a glob pattern's syntax.
func CheckPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("empty pattern")
	}
	if strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern must be relative")
	}
	for _, segment := range strings.Split(pattern, "/") {
		if segment == "**" {
			continue
		}
		if _, err := path.Match(segment, ""); err != nil {
			return err
		}
	}
	return nil
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}

	if pattern[0] == "**" {
		// "**" matches zero or more leading segments.
		for skip := 0; skip <= len(segments); skip++ {
			if matchSegments(pattern[1:], segments[skip:]) {
				return true
			}
		}
		return false
	}

	if len(segments) == 0 {
		return false
	}
	if matched, err := path.Match(pattern[0], segments[0]); err != nil || !matched {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}

func patternStem(pattern string) string {
	var stem []string
	for _, segment := range strings.Split(pattern, "/") {
		if strings.ContainsAny(segment, "*?[") {
			break
		}
		stem = append(stem, segment)
	}
	return strings.Join(stem, "/")
}
