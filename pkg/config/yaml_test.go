package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices and maps", func(t *testing.T) {
		t.Parallel()
		original := config.NewConfig()
		original.Extensions = []string{"gfm"}
		original.Highlight.Colors = map[string]string{"heading": "12"}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		clone.Extensions[0] = "emoji"
		clone.Runner.Include[0] = "*.txt"
		clone.Highlight.Colors["heading"] = "9"
		assert.Equal(t, "gfm", original.Extensions[0])
		assert.Equal(t, "**/*.md", original.Runner.Include[0])
		assert.Equal(t, "12", original.Highlight.Colors["heading"])
	})

	t.Run("preserves CLI-only fields", func(t *testing.T) {
		t.Parallel()
		original := config.NewConfig()
		original.Format = config.FormatJSON
		original.MetricsAddr = ":9090"

		clone := original.Clone()
		assert.Equal(t, config.FormatJSON, clone.Format)
		assert.Equal(t, ":9090", clone.MetricsAddr)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("defaults serialize", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Extensions = []string{"gfm", "emoji"}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, "extensions:\n  - gfm\n  - emoji\n")
		assert.Contains(t, out, "theme: default")
		assert.Contains(t, out, "debounce: 100ms")
		assert.Contains(t, out, "log_level: info")
		assert.NotContains(t, out, "format")
	})

	t.Run("header is prepended", func(t *testing.T) {
		t.Parallel()
		data, err := config.NewConfig().ToYAMLWithHeader("# hi")
		require.NoError(t, err)
		assert.Regexp(t, `^# hi\n\n`, string(data))
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses valid YAML", func(t *testing.T) {
		t.Parallel()
		data := []byte(`
extensions: [gfm, subscript]
stop_at: 4096
cache:
  enabled: true
  path: /tmp/trees.db
highlight:
  theme: plain
  colors:
    link: "#00ff00"
runner:
  jobs: 3
  include: ["docs/**/*.md"]
  follow_symlinks: true
lsp:
  debounce: 250ms
log_level: debug
`)
		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"gfm", "subscript"}, cfg.Extensions)
		assert.Equal(t, 4096, cfg.StopAt)
		assert.Equal(t, config.CacheConfig{Enabled: true, Path: "/tmp/trees.db"}, cfg.Cache)
		assert.Equal(t, "plain", cfg.Highlight.Theme)
		assert.Equal(t, "#00ff00", cfg.Highlight.Colors["link"])
		assert.Equal(t, 3, cfg.Runner.Jobs)
		assert.True(t, cfg.Runner.FollowSymlinks)
		assert.Equal(t, 250*time.Millisecond, cfg.LSP.Debounce)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("extensions: [gfm"))
		require.Error(t, err)
	})

	t.Run("rejects unknown keys with their line", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("runner:\n  jobs: 2\n  job: 3\n"))
		var decodeErr *config.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, 3, decodeErr.Line)
		require.Len(t, decodeErr.Problems, 1)
		assert.Contains(t, decodeErr.Problems[0], "field job not found")
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.Empty(t, cfg.Extensions)
	})

	t.Run("decodes onto a base without touching it", func(t *testing.T) {
		t.Parallel()
		base := config.NewConfig()
		cfg, err := config.Decode([]byte("extensions: [gfm]\n"), base)
		require.NoError(t, err)
		assert.Equal(t, []string{"gfm"}, cfg.Extensions)
		assert.Equal(t, base.Runner, cfg.Runner)
		assert.Empty(t, base.Extensions)
	})

	t.Run("accepts JSON", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML([]byte(`{"stop_at": 12, "runner": {"jobs": 1}}`))
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.StopAt)
		assert.Equal(t, 1, cfg.Runner.Jobs)
	})

	t.Run("round trips defaults", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		back, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, cfg.Runner, back.Runner)
		assert.Equal(t, cfg.LSP, back.LSP)
	})
}
