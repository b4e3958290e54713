package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/markdown"
)

// versionInfo is the JSON form of the version command.
type versionInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Built      string   `json:"built"`
	Go         string   `json:"go"`
	Extensions []string `json:"extensions"`
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of mdtree.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if format == formatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(versionInfo{
					Version:    info.Version,
					Commit:     info.Commit,
					Built:      info.Date,
					Go:         runtime.Version(),
					Extensions: markdown.ExtensionNames(),
				}); err != nil {
					return fmt.Errorf("encode version: %w", err)
				}
				return nil
			}

			logger := log.NewWithOptions(out, log.Options{
				ReportTimestamp: false,
				ReportCaller:    false,
			})
			logger.SetLevel(log.InfoLevel)

			logger.Info("mdtree",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")

	return cmd
}
