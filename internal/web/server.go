package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/sirupsen/logrus"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/app"
)

// Options tunes the HTTP layer.
type Options struct {
    // Heartbeat is the SSE keep-alive interval. Zero uses 15s.
    Heartbeat time.Duration
    Logger    logrus.FieldLogger
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts Options) http.Handler {
    if opts.Heartbeat <= 0 {
        opts.Heartbeat = defaultHeartbeat
    }
    if opts.Logger == nil {
        opts.Logger = logrus.StandardLogger()
    }
    h := &handlers{svc: s, tpl: loadTemplates(), log: opts.Logger, heartbeat: opts.Heartbeat}

    r := chi.NewRouter()
    r.Use(middleware.Recoverer)
    r.Use(requestLogger(opts.Logger))
    r.Get("/", h.index)
    r.Post("/session", h.create)
    r.Route("/session/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/start", h.start)
        r.Post("/move", h.move)
        r.Post("/reset", h.reset)
        r.Get("/state", h.state)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            next.ServeHTTP(ww, r)
            log.WithFields(logrus.Fields{
                "method":   r.Method,
                "path":     r.URL.Path,
                "status":   ww.Status(),
                "duration": time.Since(start),
            }).Debug("request")
        })
    }
}
