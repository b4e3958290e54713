package pretty_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	for name, rendered := range map[string]string{
		"Bold":     styles.Bold.Render("x"),
		"Error":    styles.Error.Render("x"),
		"DiffAdd":  styles.DiffAdd.Render("x"),
		"Location": styles.Location.Render("x"),
	} {
		assert.Equal(t, "x", rendered, name)
	}
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	assert.True(t, styles.Error.GetBold())
	assert.True(t, styles.FilePath.GetBold())
	assert.Equal(t, styles.DiffRemove.GetForeground(), styles.Error.GetForeground())
	assert.NotEqual(t, styles.DiffAdd.GetForeground(), styles.DiffRemove.GetForeground())
	assert.False(t, styles.Message.GetBold())
}

func TestIsColorEnabled(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		writer  io.Writer
		noColor string
		force   string
		want    bool
	}{
		{name: "always", mode: "always", writer: &bytes.Buffer{}, want: true},
		{name: "always ignores NO_COLOR", mode: "always", writer: &bytes.Buffer{}, noColor: "1", want: true},
		{name: "never", mode: "never", writer: os.Stdout, force: "1", want: false},
		{name: "auto buffer", mode: "auto", writer: &bytes.Buffer{}, want: false},
		{name: "auto NO_COLOR", mode: "auto", writer: os.Stdout, noColor: "1", want: false},
		{name: "auto CLICOLOR_FORCE", mode: "auto", writer: &bytes.Buffer{}, force: "1", want: true},
		{name: "auto CLICOLOR_FORCE=0", mode: "auto", writer: &bytes.Buffer{}, force: "0", want: false},
		{name: "NO_COLOR beats CLICOLOR_FORCE", mode: "", writer: &bytes.Buffer{}, noColor: "1", force: "1", want: false},
		{name: "unknown mode is auto", mode: "sometimes", writer: &bytes.Buffer{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("CLICOLOR_FORCE", tt.force)
			assert.Equal(t, tt.want, pretty.IsColorEnabled(tt.mode, tt.writer))
		})
	}
}
