// Package cli provides the Cobra command structure for mdtree.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdtree command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdtree",
		Short: "An incremental Markdown syntax tree parser",
		Long: `mdtree parses **Markdown** into a concrete syntax tree that covers
every byte of the input, and reparses edited documents incrementally by
reusing the unchanged parts of the previous tree.

It prints trees, highlights and folds documents, cross-checks its block
structure against a CommonMark reference parser, and serves the same
tree to editors over the Language Server Protocol.

` + environmentHelp(),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newHighlightCommand())
	rootCmd.AddCommand(newFoldCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newMarkupCommand())
	rootCmd.AddCommand(newLSPCommand(info))
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newExtensionsCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	ApplyHelp(rootCmd)

	return rootCmd
}

// environmentHelp lists the MDTREE_* variables for the root help.
func environmentHelp() string {
	vars := configloader.ListEnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	var b strings.Builder
	b.WriteString("Settings can also come from the environment:\n\n")
	for _, v := range vars {
		fmt.Fprintf(&b, "    %-*s  %s\n", width, v.Name, v.Description)
	}
	return b.String()
}
