package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mdtree configuration file",
		Long: `Create a new .mdtree.yml configuration file in the current directory
with sensible defaults. The file selects parser extensions, the tree cache,
the highlight theme, and the files that check and watch process.

Examples:
  mdtree init                      Create minimal .mdtree.yml
  mdtree init --full               Write every setting with its default
  mdtree init --format json        Create .mdtree.json instead
  mdtree init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .mdtree.yml or .mdtree.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != formatJSON {
		return fmt.Errorf("%w: %q must be yaml or json", errInvalidFormat, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".mdtree.yml"
		if flags.format == formatJSON {
			outputPath = ".mdtree.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	overwrite := flags.force
	err = configloader.WriteConfig(absPath, content, overwrite)
	if errors.Is(err, configloader.ErrConfigExists) && configloader.IsInteractive() {
		if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("%s exists. Overwrite?", outputPath)) {
			logger.Info("left existing file unchanged", logging.FieldPath, outputPath)
			return nil
		}
		overwrite = true
		err = configloader.WriteConfig(absPath, content, overwrite)
	}
	if errors.Is(err, configloader.ErrConfigExists) {
		return fmt.Errorf("%w; use --force to overwrite", err)
	}
	if err != nil {
		return err
	}

	if overwrite {
		logger.Warn("overwrote existing file", logging.FieldPath, outputPath)
	} else {
		logger.Info("created configuration file", logging.FieldPath, outputPath)
	}
	logger.Info("run 'mdtree extensions' to see the available parser extensions")

	return nil
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
