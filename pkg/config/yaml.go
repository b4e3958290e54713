package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation of generated files.
const yamlIndent = 2

// DecodeError describes a configuration file that could not be decoded.
type DecodeError struct {
	// Line is the 1-based line of the first problem, or 0 when unknown.
	Line int

	// Problems lists every message reported by the decoder.
	Problems []string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, strings.Join(e.Problems, "; "))
	}
	return strings.Join(e.Problems, "; ")
}

// Decode reads YAML (or JSON) from data onto a copy of base and returns it.
// Keys that match no setting are rejected, so a misspelt option fails
// instead of being ignored. Empty documents leave base unchanged.
func Decode(data []byte, base *Config) (*Config, error) {
	cfg := base.Clone()
	if cfg == nil {
		cfg = &Config{}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, newDecodeError(err)
	}
	return cfg, nil
}

// FromYAML parses a configuration from YAML bytes. Fields absent from data
// keep their zero value.
func FromYAML(data []byte) (*Config, error) {
	return Decode(data, nil)
}

// newDecodeError splits yaml.v3 messages of the form "line N: text".
func newDecodeError(err error) *DecodeError {
	var messages []string
	if typeErr := (*yaml.TypeError)(nil); errors.As(err, &typeErr) {
		messages = typeErr.Errors
	} else {
		messages = []string{strings.TrimPrefix(err.Error(), "yaml: ")}
	}

	out := &DecodeError{}
	for _, msg := range messages {
		var line int
		if _, scanErr := fmt.Sscanf(msg, "line %d:", &line); scanErr == nil {
			if out.Line == 0 {
				out.Line = line
			}
			if _, rest, ok := strings.Cut(msg, ": "); ok {
				msg = rest
			}
		}
		out.Problems = append(out.Problems, msg)
	}
	return out
}

// ToYAML serializes the configuration. CLI-only fields are never written.
func (c *Config) ToYAML() ([]byte, error) {
	return c.ToYAMLWithHeader("")
}

// ToYAMLWithHeader serializes the configuration below a comment header,
// separated by one blank line.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(strings.TrimRight(header, "\n"))
		buf.WriteString("\n\n")
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone creates a deep copy of the configuration, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Runner.Include = slices.Clone(c.Runner.Include)
	clone.Runner.Exclude = slices.Clone(c.Runner.Exclude)
	clone.Highlight.Colors = maps.Clone(c.Highlight.Colors)
	return &clone
}
