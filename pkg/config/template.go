package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/mdtree/pkg/markdown"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Parser extensions: ` + strings.Join(markdown.ExtensionNames(), ", ") + `
extensions:
  - gfm

# Persistent parse cache
# cache:
#   enabled: false
#   path: ""

# Terminal highlighting: default or plain
# highlight:
#   theme: default
#   colors:
#     heading: "12"

# Files processed by check and watch
# runner:
#   jobs: 0
#   include:
#     - "**/*.md"
#   exclude:
#     - "node_modules/**"

# log_level: info
`)

	return buf.Bytes()
}

func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Extensions = []string{"gfm"}
	cfg.Runner.Exclude = []string{"node_modules/**", "vendor/**"}

	var header strings.Builder
	header.WriteString(DefaultTemplateHeader())
	header.WriteString("\n#\n# Available extensions: ")
	header.WriteString(strings.Join(markdown.ExtensionNames(), ", "))
	header.WriteString("\n# Themes: " + ThemeDefault + ", " + ThemePlain)

	return cfg.ToYAMLWithHeader(header.String())
}

// templateToJSON renders the defaults as JSON. Comments have no JSON form.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	out := map[string]any{
		"extensions": []string{"gfm"},
		"cache": map[string]any{
			"enabled": cfg.Cache.Enabled,
		},
		"highlight": map[string]any{
			"theme": cfg.Highlight.Theme,
		},
		"runner": map[string]any{
			"jobs":            cfg.Runner.Jobs,
			"include":         cfg.Runner.Include,
			"follow_symlinks": cfg.Runner.FollowSymlinks,
		},
		"lsp": map[string]any{
			"debounce": cfg.LSP.Debounce.String(),
		},
		"log_level": cfg.LogLevel,
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdtree configuration
# See: https://github.com/yaklabco/mdtree`
}
