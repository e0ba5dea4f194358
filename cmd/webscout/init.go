package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"webscout/internal/config"
)

//go:embed templates/webscout.yaml
var presetTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new webscout preset file",
		Long: `Initialize creates a new .webscout preset file in the current directory.

The generated file includes:
- Documentation of the preset file format
- Commented examples for custom domain presets
- The list of built-in preset names

Examples:
  # Create .webscout in current directory
  webscout init

  # Create the preset file at a specific path
  webscout init -o presets.yaml

  # Force overwrite existing file
  webscout init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultPresetFile,
		"Output file path for the preset file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing preset file")

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

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("preset file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := presetTemplate.ReadFile("templates/webscout.yaml")
	if err != nil {
		return fmt.Errorf("failed to read preset template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write preset file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	fmt.Printf("Created preset file: %s\n", outputPath)
	fmt.Println("\nEdit this file to define domain presets for search discovery,")
	fmt.Println("then select one with --preset <name>.")

	return nil
}
