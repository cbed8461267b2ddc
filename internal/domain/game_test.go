package domain

import (
    "errors"
    "testing"
)

// helper to apply a sequence of moves, each by whichever side is to move
func playMoves(t *testing.T, s *State, moves []int) {
    t.Helper()
    for i, m := range moves {
        if err := s.ApplyMove(m, s.SymbolFor(s.Turn)); err != nil {
            t.Fatalf("move %d (%v) failed: %v", i, m, err)
        }
    }
}

func newGame(t *testing.T, user Cell, opener Turn) State {
    t.Helper()
    s, err := New(user, opener)
    if err != nil {
        t.Fatalf("New(%v, %v) failed: %v", user, opener, err)
    }
    return s
}

func TestNewGameInitialState(t *testing.T) {
    s := newGame(t, X, AwaitingUser)
    if s.Turn != AwaitingUser {
        t.Fatalf("expected user to move first, got %v", s.Turn)
    }
    if s.User != X || s.Computer != O {
        t.Fatalf("expected user X computer O, got %v/%v", s.User, s.Computer)
    }
    if s.Moves != 0 {
        t.Fatalf("expected 0 moves, got %d", s.Moves)
    }
    if s.Result.Outcome != Ongoing {
        t.Fatalf("expected ongoing game, got %v", s.Result.Outcome)
    }
    for i, c := range s.Board {
        if c != Empty {
            t.Fatalf("expected empty board, cell %d = %v", i, c)
        }
    }
}

func TestNewRejectsInvalidSymbol(t *testing.T) {
    if _, err := New(Empty, AwaitingUser); !errors.Is(err, ErrInvalidSymbol) {
        t.Fatalf("expected ErrInvalidSymbol, got %v", err)
    }
    if _, err := New(Cell(7), AwaitingUser); !errors.Is(err, ErrInvalidSymbol) {
        t.Fatalf("expected ErrInvalidSymbol, got %v", err)
    }
}

func TestParseCell(t *testing.T) {
    cases := map[string]Cell{"X": X, "x": X, "O": O, "o": O}
    for in, want := range cases {
        got, err := ParseCell(in)
        if err != nil || got != want {
            t.Fatalf("ParseCell(%q) = %v, %v; want %v", in, got, err, want)
        }
    }
    for _, in := range []string{"", "0", "XO", "z"} {
        if _, err := ParseCell(in); !errors.Is(err, ErrInvalidSymbol) {
            t.Fatalf("ParseCell(%q) expected ErrInvalidSymbol, got %v", in, err)
        }
    }
}

func TestPlayOutOfBounds(t *testing.T) {
    s := newGame(t, X, AwaitingUser)
    for _, m := range []int{-1, 9, 42} {
        if err := s.ApplyMove(m, X); !errors.Is(err, ErrOutOfBounds) {
            t.Fatalf("expected ErrOutOfBounds for %v, got %v", m, err)
        }
    }
}

func TestPlayOccupiedNeverMutates(t *testing.T) {
    s := newGame(t, X, AwaitingUser)
    if err := s.ApplyMove(0, X); err != nil {
        t.Fatalf("first move failed: %v", err)
    }
    before := s
    for i := 0; i < 3; i++ {
        if err := s.ApplyMove(0, O); !errors.Is(err, ErrOccupied) {
            t.Fatalf("expected ErrOccupied on same cell, got %v", err)
        }
    }
    if s != before {
        t.Fatalf("state changed after rejected move: %+v -> %+v", before, s)
    }
}

func TestPlayWrongTurn(t *testing.T) {
    s := newGame(t, X, AwaitingUser)
    if err := s.ApplyMove(4, O); !errors.Is(err, ErrWrongTurn) {
        t.Fatalf("expected ErrWrongTurn, got %v", err)
    }
    if err := s.ApplyMove(4, Empty); !errors.Is(err, ErrWrongTurn) {
        t.Fatalf("expected ErrWrongTurn for Empty, got %v", err)
    }
    if s.Board[4] != Empty || s.Moves != 0 {
        t.Fatalf("rejected move mutated board")
    }
}

func TestTurnFlipsAfterValidMove(t *testing.T) {
    s := newGame(t, X, AwaitingUser)
    if err := s.ApplyMove(4, X); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if got := Evaluate(s.Board); got.Outcome != Ongoing {
        t.Fatalf("expected ongoing, got %v", got.Outcome)
    }
    if s.Turn != AwaitingComputer {
        t.Fatalf("expected turn to flip to computer, got %v", s.Turn)
    }
}

func TestComputerOpenerOwnsFirstMove(t *testing.T) {
    s := newGame(t, O, AwaitingComputer)
    if err := s.ApplyMove(0, O); !errors.Is(err, ErrWrongTurn) {
        t.Fatalf("expected ErrWrongTurn for user, got %v", err)
    }
    if err := s.ApplyMove(0, X); err != nil {
        t.Fatalf("computer move failed: %v", err)
    }
    if s.Turn != AwaitingUser {
        t.Fatalf("expected user turn, got %v", s.Turn)
    }
}

// lineFillers picks n cells off line whose marks do not complete a line.
func lineFillers(line [3]int, n int) []int {
    var free []int
    for i := 0; i < 9; i++ {
        if i != line[0] && i != line[1] && i != line[2] {
            free = append(free, i)
        }
    }
    var pick func(start int, acc []int) []int
    pick = func(start int, acc []int) []int {
        if len(acc) == n {
            var b Board
            for _, i := range acc {
                b[i] = X
            }
            if HasWin(b, X) {
                return nil
            }
            return append([]int(nil), acc...)
        }
        for i := start; i < len(free); i++ {
            if got := pick(i+1, append(acc, free[i])); got != nil {
                return got
            }
        }
        return nil
    }
    return pick(0, nil)
}

func TestWinConditionsForOpener(t *testing.T) {
    for _, line := range Lines {
        s := newGame(t, X, AwaitingUser)
        f := lineFillers(line, 2)
        playMoves(t, &s, []int{line[0], f[0], line[1], f[1], line[2]})
        if s.Result.Outcome != Win || s.Result.Winner != X {
            t.Fatalf("expected X to win on line %v; result=%+v", line, s.Result)
        }
        if s.Moves != 5 {
            t.Fatalf("expected 5 moves to win, got %d", s.Moves)
        }
        if s.Turn != AwaitingUser {
            t.Fatalf("turn must not flip after the winning move")
        }
    }
}

func TestWinConditionsForSecondPlayer(t *testing.T) {
    for _, line := range Lines {
        s := newGame(t, X, AwaitingUser)
        f := lineFillers(line, 3)
        if f == nil {
            t.Fatalf("no fillers for line %v", line)
        }
        playMoves(t, &s, []int{f[0], line[0], f[1], line[1], f[2], line[2]})
        if s.Result.Outcome != Win || s.Result.Winner != O {
            t.Fatalf("expected O to win on line %v; result=%+v", line, s.Result)
        }
        if s.Moves != 6 {
            t.Fatalf("expected 6 moves to win for O, got %d", s.Moves)
        }
    }
}

func TestDrawNoWinner(t *testing.T) {
    s := newGame(t, X, AwaitingUser)
    // X O X / X O O / O X X
    playMoves(t, &s, []int{0, 1, 2, 4, 3, 5, 7, 6, 8})
    if s.Result.Outcome != Tie {
        t.Fatalf("expected tie, got %+v", s.Result)
    }
    if s.Result.Winner != Empty {
        t.Fatalf("expected no winner on draw, got %v", s.Result.Winner)
    }
    if s.Moves != 9 {
        t.Fatalf("expected 9 moves on draw, got %d", s.Moves)
    }
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
    s := newGame(t, X, AwaitingUser)
    // X wins quickly on top row
    playMoves(t, &s, []int{0, 3, 1, 4, 2})
    if s.Result.Outcome != Win || s.Result.Winner != X {
        t.Fatalf("expected X win before extra move")
    }
    if err := s.ApplyMove(8, O); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver, got %v", err)
    }
    if err := s.ApplyMove(8, X); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver, got %v", err)
    }
}

func TestHasWinIgnoresEmpty(t *testing.T) {
    var b Board
    if HasWin(b, Empty) {
        t.Fatalf("empty symbol must never win")
    }
}

// Walks every board reachable by alternating play from both openers.
func TestReachableBoardsInvariants(t *testing.T) {
    var walk func(s State, opener Cell)
    seen := 0
    walk = func(s State, opener Cell) {
        seen++
        r := Evaluate(s.Board)
        if HasWin(s.Board, X) && HasWin(s.Board, O) {
            t.Fatalf("both symbols win on %v", s.Board)
        }
        if r != s.Result {
            t.Fatalf("stored result %+v differs from evaluated %+v", s.Result, r)
        }
        a, b := s.Board.Count(opener), s.Board.Count(opener.Opponent())
        if a != b && a != b+1 {
            t.Fatalf("alternation broken on %v: opener=%d other=%d", s.Board, a, b)
        }
        if d := s.Board.Count(X) - s.Board.Count(O); d < -1 || d > 1 {
            t.Fatalf("symbol counts drift on %v: X-O=%d", s.Board, d)
        }
        if opener == X && s.Board.Count(X) != s.Board.Count(O) && s.Board.Count(X) != s.Board.Count(O)+1 {
            t.Fatalf("X opened but counts are X=%d O=%d on %v", s.Board.Count(X), s.Board.Count(O), s.Board)
        }
        if r.Outcome != Ongoing {
            return
        }
        for i := range s.Board {
            if s.Board[i] != Empty {
                continue
            }
            next := s
            if err := next.ApplyMove(i, next.SymbolFor(next.Turn)); err != nil {
                t.Fatalf("legal move %d rejected on %v: %v", i, s.Board, err)
            }
            walk(next, opener)
        }
    }
    walk(newGame(t, X, AwaitingUser), X)
    walk(newGame(t, X, AwaitingComputer), O)
    if seen == 0 {
        t.Fatalf("nothing walked")
    }
}
