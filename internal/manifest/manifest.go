// Package manifest loads and validates a stack template's template.yml:
// the variable schema, the component specs, and generation settings.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest's file name inside a template root.
const ManifestFile = "template.yml"

// TreeDir is the directory inside a template root holding the tree to render.
const TreeDir = "template"

// DefaultTemplateSuffix marks files whose content is rendered.
const DefaultTemplateSuffix = ".tmpl"

// VariableType enumerates the supported variable types.
type VariableType string

const (
	TypeString VariableType = "string"
	TypeBool   VariableType = "bool"
	TypeEnum   VariableType = "enum"
	TypeList   VariableType = "list"
)

// Variable declares one template variable: its type, default and constraints.
type Variable struct {
	Name    string       `yaml:"name"`
	Type    VariableType `yaml:"type"`
	Default any          `yaml:"default,omitempty"`
	Help    string       `yaml:"help,omitempty"`
	Enum    []string     `yaml:"enum,omitempty"`    // allowed values for enum/list
	Pattern string       `yaml:"pattern,omitempty"` // regexp constraint for strings
}

// Component declares one optional subsystem of the generated project.
//
// Requires is never auto-satisfied: enabling a component whose requirement
// is disabled is a resolution error, not an implicit activation.
type Component struct {
	ID        string   `yaml:"id"`
	EnabledBy string   `yaml:"enabled_by,omitempty"` // bool variable name, defaults to ID
	Requires  []string `yaml:"requires,omitempty"`
	Conflicts []string `yaml:"conflicts,omitempty"`

	// OwnedPaths are output-relative glob patterns ("app/worker/**") naming
	// everything the component contributes to the tree.
	OwnedPaths []string `yaml:"owned_paths,omitempty"`

	// ReferenceTokens are literal strings the validator searches for after a
	// disabled component is pruned. Defaults to the cleaned owned path stems.
	ReferenceTokens []string `yaml:"reference_tokens,omitempty"`
}

// Formatter describes the optional post-generation formatting command.
type Formatter struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// Settings holds generation knobs.
type Settings struct {
	TemplateSuffix string     `yaml:"template_suffix,omitempty"`
	Formatter      *Formatter `yaml:"formatter,omitempty"`
}

// Manifest is the parsed template.yml.
type Manifest struct {
	Name       string      `yaml:"name"`
	Variables  []Variable  `yaml:"variables"`
	Components []Component `yaml:"components,omitempty"`
	Settings   Settings    `yaml:"settings,omitempty"`
}

// Load reads and validates the manifest of the template rooted at templateRoot.
func Load(templateRoot string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(templateRoot, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read template manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a manifest from bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse template manifest: %w", err)
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Settings.TemplateSuffix == "" {
		m.Settings.TemplateSuffix = DefaultTemplateSuffix
	}
	for i := range m.Components {
		if m.Components[i].EnabledBy == "" {
			m.Components[i].EnabledBy = m.Components[i].ID
		}
	}
}

// Variable returns the declared variable with the given name.
func (m *Manifest) Variable(name string) (*Variable, bool) {
	for i := range m.Variables {
		if m.Variables[i].Name == name {
			return &m.Variables[i], true
		}
	}
	return nil, false
}

// Component returns the component spec with the given id.
func (m *Manifest) Component(id string) (*Component, bool) {
	for i := range m.Components {
		if m.Components[i].ID == id {
			return &m.Components[i], true
		}
	}
	return nil, false
}

// TreeRoot returns the directory holding the renderable tree.
func (m *Manifest) TreeRoot(templateRoot string) string {
	return filepath.Join(templateRoot, TreeDir)
}

// Validate checks the manifest's internal consistency.
func (m *Manifest) Validate() error {
	var errs ValidationErrors

	if m.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if len(m.Variables) == 0 {
		errs = append(errs, ValidationError{Field: "variables", Message: "at least one variable is required"})
	}

	errs = append(errs, m.validateVariables()...)
	errs = append(errs, m.validateComponents()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (m *Manifest) validateVariables() ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)

	for i, v := range m.Variables {
		field := fmt.Sprintf("variables[%d]", i)

		if v.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "name is required"})
			continue
		}
		if seen[v.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate variable %q", v.Name),
			})
		}
		seen[v.Name] = true

		switch v.Type {
		case TypeString, TypeBool:
		case TypeEnum:
			if len(v.Enum) == 0 {
				errs = append(errs, ValidationError{
					Field:      field + ".enum",
					Message:    fmt.Sprintf("enum variable %q declares no values", v.Name),
					Suggestion: "add an enum: list of allowed values",
				})
			}
		case TypeList:
		case "":
			errs = append(errs, ValidationError{
				Field:      field + ".type",
				Message:    fmt.Sprintf("variable %q has no type", v.Name),
				Suggestion: "use one of: string, bool, enum, list",
			})
		default:
			errs = append(errs, ValidationError{
				Field:      field + ".type",
				Message:    fmt.Sprintf("unknown type %q for variable %q", v.Type, v.Name),
				Suggestion: "use one of: string, bool, enum, list",
			})
		}

		if v.Pattern != "" {
			if _, err := regexp.Compile(v.Pattern); err != nil {
				errs = append(errs, ValidationError{
					Field:   field + ".pattern",
					Message: fmt.Sprintf("invalid pattern for variable %q: %v", v.Name, err),
				})
			}
		}
	}
	return errs
}

func (m *Manifest) validateComponents() ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)

	for _, c := range m.Components {
		if c.ID != "" {
			seen[c.ID] = true
		}
	}

	for i, c := range m.Components {
		field := fmt.Sprintf("components[%d]", i)

		if c.ID == "" {
			errs = append(errs, ValidationError{Field: field + ".id", Message: "id is required"})
			continue
		}

		if v, ok := m.Variable(c.EnabledBy); !ok {
			errs = append(errs, ValidationError{
				Field:      field + ".enabled_by",
				Message:    fmt.Sprintf("component %q is enabled by undeclared variable %q", c.ID, c.EnabledBy),
				Suggestion: "declare a bool variable with that name",
			})
		} else if v.Type != TypeBool {
			errs = append(errs, ValidationError{
				Field:   field + ".enabled_by",
				Message: fmt.Sprintf("component %q must be enabled by a bool variable, %q is %s", c.ID, c.EnabledBy, v.Type),
			})
		}

		for _, req := range c.Requires {
			if req == c.ID {
				errs = append(errs, ValidationError{
					Field:   field + ".requires",
					Message: fmt.Sprintf("component %q requires itself", c.ID),
				})
			} else if !seen[req] {
				errs = append(errs, ValidationError{
					Field:   field + ".requires",
					Message: fmt.Sprintf("component %q requires undeclared component %q", c.ID, req),
				})
			}
		}
		for _, conflict := range c.Conflicts {
			if conflict == c.ID {
				errs = append(errs, ValidationError{
					Field:   field + ".conflicts",
					Message: fmt.Sprintf("component %q conflicts with itself", c.ID),
				})
			} else if !seen[conflict] {
				errs = append(errs, ValidationError{
					Field:   field + ".conflicts",
					Message: fmt.Sprintf("component %q conflicts with undeclared component %q", c.ID, conflict),
				})
			}
		}

		for _, pattern := range c.OwnedPaths {
			if err := CheckPattern(pattern); err != nil {
				errs = append(errs, ValidationError{
					Field:   field + ".owned_paths",
					Message: fmt.Sprintf("invalid pattern %q: %v", pattern, err),
				})
			}
		}
	}

	errs = append(errs, m.checkRequiresAcyclic()...)
	return errs
}

// checkRequiresAcyclic rejects cycles in the requires graph. A cyclic graph
// has no valid enablement order, so it is a template defect rather than a
// bad answer set.
func (m *Manifest) checkRequiresAcyclic() ValidationErrors {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case visiting:
			return false
		case done:
			return true
		}
		state[id] = visiting
		if c, ok := m.Component(id); ok {
			for _, req := range c.Requires {
				if !visit(req) {
					return false
				}
			}
		}
		state[id] = done
		return true
	}

	for _, c := range m.Components {
		if !visit(c.ID) {
			return ValidationErrors{{
				Field:   "components",
				Message: fmt.Sprintf("requires cycle involving component %q", c.ID),
			}}
		}
	}
	return nil
}
