package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/sirupsen/logrus"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/app"
    "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

const defaultHeartbeat = 15 * time.Second

type handlers struct {
    svc       *app.Service
    tpl       *templates
    log       logrus.FieldLogger
    heartbeat time.Duration
}

func (h *handlers) renderBoard(v app.View, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", boardData{View: v, Error: errMsg})
}

// errorMessage maps service errors to text shown above the board.
func errorMessage(err error) string {
    switch {
    case err == nil:
        return ""
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, app.ErrAlreadyStarted):
        return "Game already started"
    case errors.Is(err, domain.ErrInvalidSymbol):
        return "Pick X or O"
    default:
        return "Invalid request"
    }
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    pid := ensurePlayerCookie(w, r)
    v, err := h.svc.CreateSession(pid)
    if err != nil {
        h.log.WithError(err).Error("create session")
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/session/"+v.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    ensurePlayerCookie(w, r)
    v, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", boardData{View: *v}))
}

// respond writes the board fragment for id, or 404 when the session is gone.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, v *app.View, err error) {
    if errors.Is(err, app.ErrNotFound) {
        http.NotFound(w, r)
        return
    }
    if v == nil {
        got, ok := h.svc.Get(id)
        if !ok {
            http.NotFound(w, r)
            return
        }
        v = got
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*v, errorMessage(err)))
}

func (h *handlers) start(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    symbol, err := domain.ParseCell(r.Form.Get("symbol"))
    if err != nil {
        h.respond(w, r, id, nil, err)
        return
    }
    v, err := h.svc.Start(id, pid, symbol, r.Form.Get("first") == "on")
    h.respond(w, r, id, v, err)
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    i, err := strconv.Atoi(r.Form.Get("i"))
    if err != nil {
        i = -1
    }
    v, err := h.svc.Move(id, pid, i)
    h.respond(w, r, id, v, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    v, err := h.svc.Reset(id, pid)
    h.respond(w, r, id, v, err)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    v, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case v, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", h.renderBoard(v, ""))
            flusher.Flush()
        }
    }
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, event string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", event)
    for _, line := range strings.Split(strings.TrimSpace(string(payload)), "\n") {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}
