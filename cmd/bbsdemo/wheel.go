package main

import (
	"strconv"

	"github.com/aretw0/bbsdemo/internal/cli"
	"github.com/spf13/cobra"
)

var spinCmd = &cobra.Command{
	Use:   "spin <number>",
	Short: "Bet on a roulette number and spin the wheel",
	Long:  `Places the bet on <number>, asks the generator for the winning slot and waits for the wheel to land. A win pays 36 times the bet.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		opts := cli.SpinOptions{Number: number}
		opts.Bet, _ = cmd.Flags().GetInt("bet")
		opts.RandomSeed, _ = cmd.Flags().GetBool("new-seed")
		return withApp(cmd, func(app *cli.App) error {
			return cli.Spin(cmd.Context(), app, opts)
		})
	},
}

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Shuffle the deck with the generator and optionally deal hands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts cli.ShuffleOptions
		opts.Draw, _ = cmd.Flags().GetInt("draw")
		opts.Hands, _ = cmd.Flags().GetInt("hands")
		opts.RandomSeed, _ = cmd.Flags().GetBool("new-seed")
		return withApp(cmd, func(app *cli.App) error {
			return cli.Shuffle(cmd.Context(), app, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(spinCmd)
	spinCmd.Flags().Int("bet", 0, "Bet amount (default from config)")
	spinCmd.Flags().Bool("new-seed", false, "Use a random seed for this spin")

	rootCmd.AddCommand(shuffleCmd)
	shuffleCmd.Flags().IntP("draw", "n", 0, "Cards per hand to deal after shuffling (0 prints the whole deck)")
	shuffleCmd.Flags().Int("hands", 1, "Number of hands to deal")
	shuffleCmd.Flags().Bool("new-seed", false, "Use a random seed for this shuffle")
}
