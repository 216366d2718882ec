package main

import (
	"github.com/aretw0/bbsdemo/internal/cli"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return cli.RunTUI(cmd.Context(), app)
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
