package domain

import (
    "errors"
    "fmt"
)

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// String returns "X", "O" or "" for an empty cell.
func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// MarshalText encodes the cell as its symbol.
func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText accepts "X", "O" or "" for an empty cell.
func (c *Cell) UnmarshalText(b []byte) error {
    if len(b) == 0 {
        *c = Empty
        return nil
    }
    v, err := ParseCell(string(b))
    if err != nil {
        return err
    }
    *c = v
    return nil
}

// Opponent returns the other symbol. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

// Valid reports whether c is a playable symbol.
func (c Cell) Valid() bool { return c == X || c == O }

// ParseCell parses "X" or "O" (case-insensitive).
func ParseCell(s string) (Cell, error) {
    switch s {
    case "X", "x":
        return X, nil
    case "O", "o":
        return O, nil
    }
    return Empty, ErrInvalidSymbol
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
    n := 0
    for _, v := range b {
        if v == c {
            n++
        }
    }
    return n
}

// Turn says which side is entitled to move while the game is ongoing.
type Turn uint8

const (
    AwaitingUser Turn = iota
    AwaitingComputer
)

func (t Turn) String() string {
    if t == AwaitingComputer {
        return "computer"
    }
    return "user"
}

// MarshalText encodes the turn as "user" or "computer".
func (t Turn) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes "user" or "computer".
func (t *Turn) UnmarshalText(b []byte) error {
    switch string(b) {
    case "user":
        *t = AwaitingUser
    case "computer":
        *t = AwaitingComputer
    default:
        return fmt.Errorf("unknown turn %q", b)
    }
    return nil
}

// State is one game between the user and the computer.
type State struct {
    Board    Board
    User     Cell
    Computer Cell
    Turn     Turn
    Result   Result
    Moves    int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds   = errors.New("out of bounds")
    ErrOccupied      = errors.New("cell occupied")
    ErrGameOver      = errors.New("game over")
    ErrWrongTurn     = errors.New("wrong turn")
    ErrInvalidSymbol = errors.New("invalid symbol")
)

// New returns an empty game. The opener moves first.
func New(user Cell, opener Turn) (State, error) {
    if !user.Valid() {
        return State{}, ErrInvalidSymbol
    }
    return State{User: user, Computer: user.Opponent(), Turn: opener}, nil
}

// SymbolFor returns the symbol owned by the side t.
func (s *State) SymbolFor(t Turn) Cell {
    if t == AwaitingComputer {
        return s.Computer
    }
    return s.User
}

// ApplyMove places symbol at index. On success the result is recomputed and,
// if the game goes on, the turn flips.
func (s *State) ApplyMove(index int, symbol Cell) error {
    if index < 0 || index >= len(s.Board) {
        return ErrOutOfBounds
    }
    if s.Board[index] != Empty {
        return ErrOccupied
    }
    if s.Result.Outcome != Ongoing {
        return ErrGameOver
    }
    if !symbol.Valid() || symbol != s.SymbolFor(s.Turn) {
        return ErrWrongTurn
    }

    // Place the mark
    s.Board[index] = symbol
    s.Moves++

    s.Result = Evaluate(s.Board)
    if s.Result.Outcome != Ongoing {
        return nil
    }

    // Flip turn
    if s.Turn == AwaitingUser {
        s.Turn = AwaitingComputer
    } else {
        s.Turn = AwaitingUser
    }
    return nil
}
