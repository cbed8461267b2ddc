package cli

import (
    "context"
    "errors"
    "fmt"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/MakeNowJust/heredoc/v2"
    "github.com/sirupsen/logrus"
    "github.com/spf13/cobra"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/app"
    "github.com/jaminalder/minimax-tic-tac-toe/internal/config"
    "github.com/jaminalder/minimax-tic-tac-toe/internal/web"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the browser UI.
func Serve() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "serve",
        Short: "Serve the game over HTTP",
        Long: heredoc.Doc(`
            serve starts an HTTP server with an htmx board. Each browser gets its
            own session; the computer's replies are pushed over server-sent events
            and a websocket at /session/{id}/ws.

            Settings come from TICTACTOE_* environment variables; flags win.
        `),
        Args: cobra.NoArgs,

        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, err := loadConfig(cmd)
            if err != nil {
                return err
            }
            if cmd.Flags().Changed("addr") {
                cfg.HTTPAddr, _ = cmd.Flags().GetString("addr")
            }
            ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
            defer stop()
            return serve(ctx, cfg, logrus.StandardLogger())
        },
    }
    cmd.Flags().String("addr", "", "HTTP listen address")
    addGameFlags(cmd)
    return cmd
}

func serve(ctx context.Context, cfg config.Config, log logrus.FieldLogger) error {
    svc := app.NewService(controllerOptions(cfg, log))
    defer svc.Close()

    srv := &http.Server{
        Addr:              cfg.HTTPAddr,
        Handler:           web.NewServer(svc, web.Options{Heartbeat: cfg.Heartbeat, Logger: log}),
        ReadHeaderTimeout: 5 * time.Second,
        // Streaming handlers end with the server context.
        BaseContext: func(net.Listener) context.Context { return ctx },
    }
    errc := make(chan error, 1)
    go func() {
        log.WithField("addr", cfg.HTTPAddr).Info("listening")
        errc <- srv.ListenAndServe()
    }()

    select {
    case err := <-errc:
        if errors.Is(err, http.ErrServerClosed) {
            return nil
        }
        return fmt.Errorf("serve http: %w", err)
    case <-ctx.Done():
    }
    log.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        return fmt.Errorf("shutdown http: %w", err)
    }
    return nil
}

func controllerOptions(cfg config.Config, log logrus.FieldLogger) app.Options {
    return app.Options{
        ComputerMovesFirst:   cfg.ComputerMovesFirst,
        RandomizeOpeningMove: cfg.RandomizeOpeningMove,
        ComputerDelay:        cfg.ComputerDelay,
        ResetDelay:           cfg.ResetDelay,
        Logger:               log,
    }
}
