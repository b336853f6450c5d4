package cmd

import "github.com/spf13/cobra"

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch an interactive terminal UI for looking up Pokémon.

Controls:
  Enter    Search for the typed name
  Tab      Move focus between input and Search button
  Ctrl+Y   Copy the current result
  F1       Help
  Esc      Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
