// Package resolve turns raw answers into a validated, fully-derived
// configuration: concrete variable values plus the enabled component set.
//
// Resolution is pure. It never touches the filesystem and the returned
// Config is immutable, so every later pipeline stage sees the same view.
package resolve

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
)

// Config is the resolved configuration for one generation run.
type Config struct {
	values  map[string]any
	enabled map[string]bool
}

// Value returns the resolved value of a variable.
func (c *Config) Value(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// TemplateData returns a fresh copy of the variable values for use as
// template rendering data.
func (c *Config) TemplateData() map[string]any {
	data := make(map[string]any, len(c.values))
	for k, v := range c.values {
		data[k] = v
	}
	return data
}

// ComponentEnabled reports whether a component is in the enabled set.
func (c *Config) ComponentEnabled(id string) bool {
	return c.enabled[id]
}

// EnabledComponents returns the enabled component ids in sorted order.
func (c *Config) EnabledComponents() []string {
	ids := make([]string, 0, len(c.enabled))
	for id, on := range c.enabled {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Resolve validates raw answers against the manifest's variable schema and
// derives the enabled component set.
//
// A component whose requirement is disabled is a hard error. Aegis never
// force-enables a prerequisite behind the user's back.
func Resolve(answers map[string]any, m *manifest.Manifest) (*Config, error) {
	cfg := &Config{
		values:  make(map[string]any, len(m.Variables)),
		enabled: make(map[string]bool, len(m.Components)),
	}

	// Reject unknown answer names first, in sorted order so the reported
	// error does not depend on map iteration.
	names := make([]string, 0, len(answers))
	for name := range answers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := m.Variable(name); !ok {
			return nil, &Error{
				Kind:     KindInvalidValue,
				Variable: name,
				Reason:   "unknown variable",
			}
		}
	}

	for i := range m.Variables {
		v := &m.Variables[i]

		raw, answered := answers[v.Name]
		if !answered {
			if v.Default == nil {
				return nil, &Error{
					Kind:     KindInvalidValue,
					Variable: v.Name,
					Reason:   "no value provided and no default declared",
				}
			}
			raw = v.Default
		}

		value, err := coerce(v, raw)
		if err != nil {
			return nil, err
		}
		cfg.values[v.Name] = value
	}

	for _, c := range m.Components {
		on, _ := cfg.values[c.EnabledBy].(bool)
		cfg.enabled[c.ID] = on
	}

	if err := checkDependencies(cfg, m); err != nil {
		return nil, err
	}
	return cfg, nil
}

// coerce type-checks a raw answer, converting the string forms the CLI
// produces (--set worker=true) into typed values.
func coerce(v *manifest.Variable, raw any) (any, error) {
	switch v.Type {
	case manifest.TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, invalidValue(v.Name, fmt.Sprintf("expected string, got %T", raw))
		}
		if v.Pattern != "" {
			re := regexp.MustCompile(v.Pattern) // validated at manifest load
			if !re.MatchString(s) {
				return nil, invalidValue(v.Name, fmt.Sprintf("%q does not match pattern %s", s, v.Pattern))
			}
		}
		return s, nil

	case manifest.TypeBool:
		switch b := raw.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, invalidValue(v.Name, fmt.Sprintf("%q is not a bool", b))
			}
			return parsed, nil
		}
		return nil, invalidValue(v.Name, fmt.Sprintf("expected bool, got %T", raw))

	case manifest.TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, invalidValue(v.Name, fmt.Sprintf("expected one of %v, got %T", v.Enum, raw))
		}
		for _, allowed := range v.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, invalidValue(v.Name, fmt.Sprintf("%q is not one of %v", s, v.Enum))

	case manifest.TypeList:
		items, err := toStringList(raw)
		if err != nil {
			return nil, invalidValue(v.Name, err.Error())
		}
		if len(v.Enum) > 0 {
			for _, item := range items {
				if !containsString(v.Enum, item) {
					return nil, invalidValue(v.Name, fmt.Sprintf("%q is not one of %v", item, v.Enum))
				}
			}
		}
		return items, nil
	}

	return nil, invalidValue(v.Name, fmt.Sprintf("unsupported type %q", v.Type))
}

func checkDependencies(cfg *Config, m *manifest.Manifest) error {
	for _, c := range m.Components {
		if !cfg.enabled[c.ID] {
			continue
		}
		for _, req := range c.Requires {
			if !cfg.enabled[req] {
				return &Error{
					Kind:      KindMissingDependency,
					Component: c.ID,
					Requires:  req,
				}
			}
		}
		for _, conflict := range c.Conflicts {
			if cfg.enabled[conflict] {
				return &Error{
					Kind:      KindConflictingComponents,
					Component: c.ID,
					Conflict:  conflict,
				}
			}
		}
	}
	return nil
}

func toStringList(raw any) ([]string, error) {
	switch list := raw.(type) {
	case []string:
		return list, nil
	case []any:
		items := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of strings, got %T element", item)
			}
			items = append(items, s)
		}
		return items, nil
	case string:
		if list == "" {
			return nil, nil
		}
		return splitComma(list), nil
	}
	return nil, fmt.Errorf("expected list of strings, got %T", raw)
}

func splitComma(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
