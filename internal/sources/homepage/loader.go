// Package homepage imports link groups from gethomepage.dev YAML files.
package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVarRe = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Kind selects which Homepage file format is read.
type Kind string

const (
	KindBookmarks Kind = "bookmarks"
	KindServices  Kind = "services"
)

// LoadServices reads and parses a services.yaml file
func LoadServices(path string) (ServicesConfig, error) {
	var config ServicesConfig
	if err := load(path, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadBookmarks reads and parses a bookmarks.yaml file
func LoadBookmarks(path string) (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := load(path, &config); err != nil {
		return nil, err
	}
	return config, nil
}

func load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read homepage file: %w", err)
	}

	// Strip Homepage template variables ({{HOMEPAGE_VAR_...}})
	data = stripTemplateVariables(data)

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse homepage yaml: %w", err)
	}
	return nil
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVarRe.ReplaceAll(data, []byte(`""`))
}
