// Package cli holds the tictactoe commands.
package cli

import (
    "github.com/MakeNowJust/heredoc/v2"
    "github.com/sirupsen/logrus"
    "github.com/spf13/cobra"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/config"
)

// Root returns the tictactoe command tree.
func Root() *cobra.Command {
    root := &cobra.Command{
        Use:   "tictactoe",
        Short: "Play Tic-Tac-Toe against a perfect computer opponent",
        Long: heredoc.Doc(`
            tictactoe runs a game of Tic-Tac-Toe against a computer that searches
            the whole game tree before every move. It never loses.

            Use "serve" for the browser version or "play" for the terminal.
        `),
        Args: cobra.NoArgs,

        SilenceErrors: true,
        SilenceUsage:  true,

        PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
            cfg, err := config.Load()
            if err != nil {
                return err
            }
            lvl, _ := cfg.Level()
            logrus.SetLevel(lvl)
            // If --trace flag is provided, set logging level to Trace.
            if cmd.Flag("trace").Changed {
                logrus.SetLevel(logrus.TraceLevel)
            }
            return nil
        },
    }

    // global flags
    root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

    root.AddCommand(Serve())
    root.AddCommand(Play())

    return root
}

// loadConfig reads the environment and applies the shared game flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
    cfg, err := config.Load()
    if err != nil {
        return config.Config{}, err
    }
    flags := cmd.Flags()
    if flags.Changed("computer-first") {
        cfg.ComputerMovesFirst, _ = flags.GetBool("computer-first")
    }
    if flags.Changed("no-random-opening") {
        v, _ := flags.GetBool("no-random-opening")
        cfg.RandomizeOpeningMove = !v
    }
    if flags.Changed("delay") {
        cfg.ComputerDelay, _ = flags.GetDuration("delay")
    }
    return cfg, cfg.Validate()
}

func addGameFlags(cmd *cobra.Command) {
    cmd.Flags().Bool("computer-first", false, "Let the computer open every game")
    cmd.Flags().Bool("no-random-opening", false, "Search the opening move instead of picking it at random")
    cmd.Flags().Duration("delay", 0, "Computer thinking delay")
}
