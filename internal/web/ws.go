package web

import (
    "errors"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/app"
    "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

const (
    wsWriteWait  = 5 * time.Second
    wsMaxMessage = 512
)

var upgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}

// wsCommand is a client request sent over the socket.
type wsCommand struct {
    Action    string `json:"action"`
    Symbol    string `json:"symbol,omitempty"`
    UserFirst bool   `json:"userFirst,omitempty"`
    Index     int    `json:"index"`
}

// wsMessage is what the server pushes: a state view or an error.
type wsMessage struct {
    View  *app.View `json:"view,omitempty"`
    Error string    `json:"error,omitempty"`
}

// ws streams JSON views of a session and accepts start/move/reset commands
// from the session owner.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    v, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    var pid string
    if c, err := r.Cookie("player_id"); err == nil {
        pid = c.Value
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.WithError(err).Debug("websocket upgrade")
        return
    }
    defer conn.Close()
    conn.SetReadLimit(wsMaxMessage)

    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        return
    }
    defer unsub()

    replies := make(chan wsMessage, 1)
    go func() {
        defer unsub()
        for {
            var cmd wsCommand
            if err := conn.ReadJSON(&cmd); err != nil {
                return
            }
            if err := h.apply(id, pid, cmd); err != nil {
                select {
                case replies <- wsMessage{Error: errorMessage(err)}:
                default:
                }
            }
        }
    }()

    send := func(m wsMessage) bool {
        _ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
        return conn.WriteJSON(m) == nil
    }
    if !send(wsMessage{View: v}) {
        return
    }
    for {
        select {
        case <-ctx.Done():
            return
        case m := <-replies:
            if !send(m) {
                return
            }
        case v, ok := <-ch:
            if !ok {
                _ = conn.WriteControl(websocket.CloseMessage,
                    websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
                return
            }
            if !send(wsMessage{View: &v}) {
                return
            }
        }
    }
}

var errUnknownAction = errors.New("unknown action")

func (h *handlers) apply(id, pid string, cmd wsCommand) error {
    switch cmd.Action {
    case "start":
        symbol, err := domain.ParseCell(cmd.Symbol)
        if err != nil {
            return err
        }
        _, err = h.svc.Start(id, pid, symbol, cmd.UserFirst)
        return err
    case "move":
        _, err := h.svc.Move(id, pid, cmd.Index)
        return err
    case "reset":
        _, err := h.svc.Reset(id, pid)
        return err
    default:
        return errUnknownAction
    }
}
