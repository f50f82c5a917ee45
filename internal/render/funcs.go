package render

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"
)

// defaultFuncMap returns the helper functions available inside stack
// templates.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// Case conversion
		"pascalCase": PascalCase, // project_name → ProjectName
		"camelCase":  CamelCase,  // project_name → projectName
		"snakeCase":  SnakeCase,  // ProjectName → project_name
		"kebabCase":  KebabCase,  // project_name → project-name

		// String manipulation
		"quote":     Quote,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     Title,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"split":     strings.Split,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,

		// Utilities
		"has":     Has,     // membership test for list variables
		"default": Default, // fallback when a value is nil/empty
	}
}

// PascalCase converts snake_case, kebab-case or camelCase to PascalCase.
func PascalCase(s string) string {
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "_-") {
		parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
		for i, part := range parts {
			parts[i] = capitalize(part)
		}
		return strings.Join(parts, "")
	}

	if unicode.IsLower(rune(s[0])) {
		return capitalize(s)
	}
	return s
}

// CamelCase converts snake_case, kebab-case or PascalCase to camelCase.
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(string(p[0])) + p[1:]
}

// SnakeCase converts PascalCase, camelCase or kebab-case to snake_case.
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "-", "_")
	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}

	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// KebabCase converts any of the supported casings to kebab-case.
func KebabCase(s string) string {
	return strings.ReplaceAll(SnakeCase(s), "_", "-")
}

// Quote wraps a string in double quotes.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Title capitalizes the first letter of each word.
// Replaces the deprecated strings.Title.
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

// Has reports whether a list variable contains an item.
// Usage: {{ if has .frontend_extras "htmx" }}
func Has(list any, item string) bool {
	switch l := list.(type) {
	case []string:
		for _, v := range l {
			if v == item {
				return true
			}
		}
	case []any:
		for _, v := range l {
			if s, ok := v.(string); ok && s == item {
				return true
			}
		}
	}
	return false
}

// Default returns the fallback when val is nil or an empty string/list.
func Default(fallback, val any) any {
	switch v := val.(type) {
	case nil:
		return fallback
	case string:
		if v == "" {
			return fallback
		}
	case []any:
		if len(v) == 0 {
			return fallback
		}
	case []string:
		if len(v) == 0 {
			return fallback
		}
	}
	return val
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}
