package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/bbsdemo/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bbsdemo",
	Short: "Blum Blum Shub generator demo client",
	Long: `bbsdemo talks to a remote Blum Blum Shub generator and uses it to encrypt
text, spin a roulette wheel and shuffle a deck of cards.

Run without a subcommand on a terminal to open the interactive UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	sigCtx := cli.NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	err := cli.HandleExecutionError(rootCmd.ExecuteContext(sigCtx))
	cli.ReportInterrupt(os.Stderr, sigCtx.Signal())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		sigCtx.Cancel()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default is the user config dir bbsdemo/config.yaml)")
	flags.String("server", "", "Generator service base URL")
	flags.String("storage", "", "Settings backend: file, memory or redis")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

// setup wires the application from the persistent flags.
func setup(cmd *cobra.Command) (*cli.App, error) {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.ServerURL, _ = flags.GetString("server")
	opts.Storage, _ = flags.GetString("storage")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.LogFormat, _ = flags.GetString("log-format")
	opts.MetricsAddr, _ = flags.GetString("metrics-addr")
	return cli.Setup(cmd.Context(), opts, os.Stdout)
}

// withApp runs fn with a wired application and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(app *cli.App) error) (err error) {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(app)
}
