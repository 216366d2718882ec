package main

import (
	"strings"

	"github.com/aretw0/bbsdemo/internal/cli"
	"github.com/spf13/cobra"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <text>...",
	Short: "Encrypt text with the generator keystream",
	Long:  `Sends the text to the generator and prints the ciphertext as hex. With --offline a local rotation cipher keyed by --key is used instead.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if offline, _ := cmd.Flags().GetBool("offline"); offline {
			key, _ := cmd.Flags().GetString("key")
			return cli.EncryptOffline(cmd.OutOrStdout(), text, key)
		}
		return withApp(cmd, func(app *cli.App) error {
			return cli.Encrypt(cmd.Context(), app, text, cipherOptions(cmd))
		})
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <hex>",
	Short: "Decrypt hex ciphertext produced by encrypt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if offline, _ := cmd.Flags().GetBool("offline"); offline {
			key, _ := cmd.Flags().GetString("key")
			return cli.DecryptOffline(cmd.OutOrStdout(), text, key)
		}
		return withApp(cmd, func(app *cli.App) error {
			return cli.Decrypt(cmd.Context(), app, text, cipherOptions(cmd))
		})
	},
}

func cipherOptions(cmd *cobra.Command) cli.CipherOptions {
	var opts cli.CipherOptions
	opts.Seed, _ = cmd.Flags().GetString("seed")
	return opts
}

func init() {
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		rootCmd.AddCommand(c)
		c.Flags().Bool("offline", false, "Use the local rotation cipher instead of the generator")
		c.Flags().String("key", "", "Key for the local rotation cipher (with --offline)")
		c.Flags().String("seed", "", "Override the configured seed")
	}
}
