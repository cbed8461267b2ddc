package cli

import (
    "bufio"
    "context"
    "fmt"
    "io"
    "strconv"
    "strings"
    "time"

    "github.com/MakeNowJust/heredoc/v2"
    "github.com/briandowns/spinner"
    "github.com/sirupsen/logrus"
    "github.com/spf13/cobra"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/app"
    "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

// Play runs a game in the terminal.
func Play() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "play",
        Short: "Play in the terminal",
        Long: heredoc.Doc(`
            play starts a game on stdin/stdout. Squares are numbered like a
            phone keypad, left to right from the top row:

                1 | 2 | 3
                4 | 5 | 6
                7 | 8 | 9
        `),
        Args: cobra.NoArgs,

        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, err := loadConfig(cmd)
            if err != nil {
                return err
            }
            raw, _ := cmd.Flags().GetString("symbol")
            symbol, err := domain.ParseCell(raw)
            if err != nil {
                return fmt.Errorf("--symbol %q: %w", raw, err)
            }
            opts := controllerOptions(cfg, logrus.StandardLogger())
            return play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, symbol)
        },
    }
    cmd.Flags().StringP("symbol", "s", "X", "Your symbol, X or O")
    addGameFlags(cmd)
    return cmd
}

func play(ctx context.Context, in io.Reader, out io.Writer, opts app.Options, symbol domain.Cell) error {
    if ctx == nil {
        ctx = context.Background()
    }
    updates := make(chan struct{}, 1)
    opts.OnChange = func(app.Snapshot) {
        select {
        case updates <- struct{}{}:
        default:
        }
    }
    ctrl := app.NewController(opts)
    defer ctrl.Close()
    if err := ctrl.StartGame(symbol); err != nil {
        return err
    }

    spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
    spin.Suffix = " computer is thinking"
    lines := bufio.NewScanner(in)

    for {
        s := ctrl.Snapshot()
        switch {
        case s.ComputerThinking():
            spin.Start()
            err := waitForComputer(ctx, ctrl, updates)
            spin.Stop()
            if err != nil {
                return err
            }
        case s.Phase == app.Playing:
            printBoard(out, s.Board)
            fmt.Fprintf(out, "Your move (%s): ", s.User)
            if !lines.Scan() {
                fmt.Fprintln(out)
                return lines.Err()
            }
            n, err := strconv.Atoi(strings.TrimSpace(lines.Text()))
            if err != nil || n < 1 || n > 9 {
                fmt.Fprintln(out, "Pick a square from 1 to 9.")
                continue
            }
            if !ctrl.HandleUserMove(n - 1) {
                fmt.Fprintln(out, "That square is taken.")
            }
        default:
            printBoard(out, s.Board)
            fmt.Fprintln(out, s.Message)
            fmt.Fprint(out, "Play again? [y/N] ")
            if !lines.Scan() || !strings.EqualFold(strings.TrimSpace(lines.Text()), "y") {
                fmt.Fprintln(out)
                return lines.Err()
            }
            // Finished games may also start over.
            if err := ctrl.StartGame(symbol); err != nil {
                return err
            }
        }
    }
}

func waitForComputer(ctx context.Context, ctrl *app.Controller, updates <-chan struct{}) error {
    for ctrl.Snapshot().ComputerThinking() {
        select {
        case <-updates:
        case <-ctx.Done():
            return ctx.Err()
        }
    }
    return nil
}

func printBoard(out io.Writer, b domain.Board) {
    fmt.Fprintln(out)
    for r := 0; r < 3; r++ {
        cells := make([]string, 3)
        for c := 0; c < 3; c++ {
            i := r*3 + c
            if b[i] == domain.Empty {
                cells[c] = strconv.Itoa(i + 1)
            } else {
                cells[c] = b[i].String()
            }
        }
        fmt.Fprintf(out, " %s\n", strings.Join(cells, " | "))
        if r < 2 {
            fmt.Fprintln(out, "---+---+---")
        }
    }
    fmt.Fprintln(out)
}
