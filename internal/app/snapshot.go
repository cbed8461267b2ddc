package app

import (
    "fmt"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

// Phase is the top-level lifecycle of a controller.
type Phase uint8

const (
    // Idle means no symbols are chosen.
    Idle Phase = iota
    Playing
    Finished
)

func (p Phase) String() string {
    switch p {
    case Playing:
        return "playing"
    case Finished:
        return "finished"
    default:
        return "idle"
    }
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
    for _, v := range [...]Phase{Idle, Playing, Finished} {
        if v.String() == string(b) {
            *p = v
            return nil
        }
    }
    return fmt.Errorf("unknown phase %q", b)
}

// Display texts for a finished game.
const (
    TextUserWins     = "You Win"
    TextComputerWins = "You Lose"
    TextTie          = "It's a Tie"
)

// Snapshot is the read-only view a UI renders from.
type Snapshot struct {
    Board      domain.Board  `json:"board"`
    Phase      Phase         `json:"phase"`
    Turn       domain.Turn   `json:"turn"`
    User       domain.Cell   `json:"user"`
    Computer   domain.Cell   `json:"computer"`
    Result     domain.Result `json:"result"`
    Message    string        `json:"message,omitempty"`
    Moves      int           `json:"moves"`
    UserFirst  bool          `json:"userFirst"`
    Generation uint64        `json:"generation"`
}

// UserToMove reports whether a user click would currently be accepted on an empty cell.
func (s Snapshot) UserToMove() bool {
    return s.Phase == Playing && s.Result.Outcome == domain.Ongoing && s.Turn == domain.AwaitingUser
}

// ComputerThinking reports whether a computer move is due.
func (s Snapshot) ComputerThinking() bool {
    return s.Phase == Playing && s.Result.Outcome == domain.Ongoing && s.Turn == domain.AwaitingComputer
}

// ResultText maps a result to the text shown to the user, or "" while ongoing.
func ResultText(r domain.Result, user domain.Cell) string {
    switch r.Outcome {
    case domain.Tie:
        return TextTie
    case domain.Win:
        if r.Winner == user {
            return TextUserWins
        }
        return TextComputerWins
    default:
        return ""
    }
}
