package domain

import "fmt"

// Lines lists the eight winning index triples: rows, columns, diagonals.
var Lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// Outcome is the coarse state of a game.
type Outcome uint8

const (
    Ongoing Outcome = iota
    Win
    Tie
)

func (o Outcome) String() string {
    switch o {
    case Win:
        return "win"
    case Tie:
        return "tie"
    default:
        return "ongoing"
    }
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
    for _, v := range [...]Outcome{Ongoing, Win, Tie} {
        if v.String() == string(b) {
            *o = v
            return nil
        }
    }
    return fmt.Errorf("unknown outcome %q", b)
}

// Result is derived from a board. Winner is set only when Outcome is Win.
type Result struct {
    Outcome Outcome `json:"outcome"`
    Winner  Cell    `json:"winner"`
}

// HasWin reports whether side holds all three cells of any line.
func HasWin(b Board, side Cell) bool {
    if side == Empty {
        return false
    }
    for _, ln := range Lines {
        if b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
            return true
        }
    }
    return false
}

// IsFull reports whether no cell is empty.
func IsFull(b Board) bool {
    for _, c := range b {
        if c == Empty {
            return false
        }
    }
    return true
}

// Evaluate derives the result of b. Boards where both symbols hold a line
// cannot arise from alternating play and are not checked for.
func Evaluate(b Board) Result {
    for _, side := range [2]Cell{X, O} {
        if HasWin(b, side) {
            return Result{Outcome: Win, Winner: side}
        }
    }
    if IsFull(b) {
        return Result{Outcome: Tie}
    }
    return Result{Outcome: Ongoing}
}
