package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/markdown"
)

// extensionInfo describes an extension in JSON output.
type extensionInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Nodes   []string `json:"nodes,omitempty"`
	Blocks  []string `json:"block_parsers,omitempty"`
	Inlines []string `json:"inline_parsers,omitempty"`
	Groups  []string `json:"groups,omitempty"`
}

func newExtensionsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "List available parser extensions",
		Long: `List the bundled parser extensions with the node types and parsers
each one adds, the aliases accepted for it in configuration, and the
groups that include it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := extensionInfos()
			if err != nil {
				return err
			}

			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(infos); err != nil {
					return fmt.Errorf("encoding extensions: %w", err)
				}
				return nil
			}
			if format != formatText {
				return fmt.Errorf("%w: %q (want text or json)", errInvalidFormat, format)
			}

			logger := logging.NewInteractive()
			logger.SetOutput(cmd.OutOrStdout())
			logger.SetReportTimestamp(false)
			logger.Info("available extensions")
			for _, info := range infos {
				logger.Info(info.Name,
					"nodes", strings.Join(info.Nodes, " "),
					"aliases", dashIfEmpty(info.Aliases),
					"groups", dashIfEmpty(info.Groups),
				)
			}
			for _, group := range configloader.GroupNames() {
				logger.Info("group "+group,
					logging.FieldExtensions, strings.Join(configloader.GetGroupExtensions(group), " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")

	return cmd
}

func extensionInfos() ([]extensionInfo, error) {
	names := markdown.ExtensionNames()
	infos := make([]extensionInfo, 0, len(names))
	for _, name := range names {
		ext, err := markdown.ExtensionByName(name)
		if err != nil {
			return nil, err
		}
		info := extensionInfo{Name: name, Aliases: configloader.GetAliasesForExtension(name)}
		collectExtension(ext, &info)
		for _, group := range configloader.GroupNames() {
			if slices.Contains(configloader.GetGroupExtensions(group), name) {
				info.Groups = append(info.Groups, group)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// collectExtension gathers what ext and its nested extensions add.
func collectExtension(ext markdown.Extension, info *extensionInfo) {
	for _, nested := range ext.Extensions {
		collectExtension(nested, info)
	}
	for _, spec := range ext.DefineNodes {
		info.Nodes = appendUnique(info.Nodes, spec.Name)
	}
	for _, spec := range ext.ParseBlock {
		info.Blocks = appendUnique(info.Blocks, spec.Name)
	}
	for _, spec := range ext.ParseInline {
		info.Inlines = appendUnique(info.Inlines, spec.Name)
	}
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

func dashIfEmpty(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, " ")
}
