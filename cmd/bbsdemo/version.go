package main

import (
	"os"

	"github.com/aretw0/bbsdemo"
	"github.com/aretw0/bbsdemo/internal/cli"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bbsdemo",
	Run: func(cmd *cobra.Command, args []string) {
		cli.PrintVersion(os.Stdout, bbsdemo.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
