package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// DefaultVariant is used by modes that have a single prompt
const DefaultVariant = "default"

// Provider is the read interface handed to gateways and handlers
type Provider interface {
	BuildPrompt(mode, variant string, data map[string]string) (string, error)
	Variants(mode string) []string
}

type Manager struct {
	prompts map[string]map[string]string // mode -> variant -> complete prompt
}

// on-disk template shape
type promptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Variants   map[string]string `yaml:"variants"`
}

// creates a new prompt manager and loads the embedded templates
func NewManager() (*Manager, error) {
	m := &Manager{
		prompts: make(map[string]map[string]string),
	}
	if err := m.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return m, nil
}

// BuildPrompt assembles the prompt for the given mode and variant,
// substituting {{.Key}} placeholders from data.
func (m *Manager) BuildPrompt(mode, variant string, data map[string]string) (string, error) {
	modePrompts, exists := m.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	prompt, exists := modePrompts[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	// Simple string replacement instead of template execution
	for key, value := range data {
		prompt = strings.ReplaceAll(prompt, "{{."+key+"}}", value)
	}
	return prompt, nil
}

// Variants lists the available variants for a mode, sorted
func (m *Manager) Variants(mode string) []string {
	modePrompts, exists := m.prompts[mode]
	if !exists {
		return nil
	}
	out := make([]string, 0, len(modePrompts))
	for variant := range modePrompts {
		out = append(out, variant)
	}
	sort.Strings(out)
	return out
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (m *Manager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tmpl promptTemplate
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if len(tmpl.Variants) == 0 {
			return fmt.Errorf("template file %s declares no variants", entry.Name())
		}

		mode := strings.TrimSuffix(entry.Name(), ".yaml")
		m.prompts[mode] = make(map[string]string)

		for variant, variantPrompt := range tmpl.Variants {
			var full strings.Builder
			if tmpl.BasePrompt != "" {
				full.WriteString(strings.TrimSpace(tmpl.BasePrompt))
				full.WriteString("\n\n")
			}
			full.WriteString(strings.TrimSpace(variantPrompt))
			m.prompts[mode][variant] = full.String()
		}
	}

	return nil
}
