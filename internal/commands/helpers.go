package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
)

// envPrefix is the prefix for environment variable answer overrides,
// e.g. AEGIS_PROJECT_NAME=myapp.
const envPrefix = "AEGIS"

// collectAnswers assembles the raw answer map for one generation run.
// Precedence, lowest to highest: answers file, environment, --set flags.
// Schema defaults are applied later by the resolver.
func collectAnswers(m *manifest.Manifest, answersFile string, setFlags []string) (map[string]any, error) {
	answers := make(map[string]any)

	if answersFile != "" {
		v := viper.New()
		v.SetConfigFile(answersFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read answers file: %w", err)
		}
		for key, value := range v.AllSettings() {
			answers[key] = value
		}
	}

	for i := range m.Variables {
		name := m.Variables[i].Name
		envKey := envPrefix + "_" + strings.ToUpper(name)
		if value, ok := os.LookupEnv(envKey); ok {
			answers[name] = value
		}
	}

	for _, set := range setFlags {
		key, value, found := strings.Cut(set, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", set)
		}
		answers[key] = value
	}

	return answers, nil
}
