package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/pokedex/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pokedex configuration",
	Long: `Write a config.yaml with the default settings to your config directory.

Edit it to change the API endpoint, request timeout, whitespace trimming
of the search input, sprite size and logging.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := writeDefaultConfig(getConfigDir(), force)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit the file to adjust settings")
	fmt.Fprintln(out, "  2. Run 'pokedex lookup pikachu' to test a lookup")
	fmt.Fprintln(out, "  3. Run 'pokedex' to start the TUI")

	return nil
}

// writeDefaultConfig writes the default config into dir and returns its path.
func writeDefaultConfig(dir string, force bool) (string, error) {
	path := filepath.Join(dir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.EnsureDir(dir); err != nil {
		return "", err
	}

	if err := config.Save(path, config.Default()); err != nil {
		return "", err
	}

	return path, nil
}
