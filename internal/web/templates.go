package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/app"
    "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>TicTacToe</h1><form action="/session" method="post"><button>New game</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/session/{{.ID}}/events">
  <div id="live" sse-swap="board" hx-swap="innerHTML">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board" data-phase="{{.Phase}}">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{if eq .Phase.String "idle"}}
  <form hx-post="/session/{{.ID}}/start" hx-target="#board" hx-swap="outerHTML" method="post">
    <label><input type="radio" name="symbol" value="X" checked> X</label>
    <label><input type="radio" name="symbol" value="O"> O</label>
    <label><input type="checkbox" name="first" value="on" {{if .UserFirst}}checked{{end}}> I play first</label>
    <button type="submit">Start</button>
  </form>
  {{else}}
  <p class="status">
    {{if .Message}}{{.Message}}{{else if .ComputerThinking}}Computer is thinking...{{else}}Your move ({{cellSymbol .User}}){{end}}
  </p>
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      {{$i := add (mul $r 3) $c}}
      <form hx-post="/session/{{$.ID}}/move" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="i" value="{{$i}}">
        <button type="submit" {{if not $.UserToMove}}disabled{{end}}>{{cellSymbol (index $.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/session/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Rematch</button>
  </form>
  {{end}}
</div>
`

// boardData is the template input for the board fragment.
type boardData struct {
    app.View
    Error string
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
    return v
}
