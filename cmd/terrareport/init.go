package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/config"
)

//go:embed templates/terrareport.yaml
var configTemplate embed.FS

// templatePath is the embedded template location.
const templatePath = "templates/terrareport.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commented .terrareport.yaml project file",
		Long: `Init writes a .terrareport.yaml project file to the current directory.

The generated file includes:
- The cloud project, credentials and asset root
- Shared defaults for region, seasonal window and captions
- Example ndvi, ndvi-change and lst analyses
- Report layout and publishing settings

Examples:
  # Create .terrareport.yaml in the current directory
  terrareport init

  # Create the file at a specific path
  terrareport init -o configs/germany.yaml

  # Overwrite an existing file
  terrareport init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the project file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing project file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - Your cloud project and asset root")
	fmt.Fprintln(out, "  - The country, years and seasonal window of each analysis")
	fmt.Fprintln(out, "  - Caption templates and visualization ranges")

	return nil
}
