// Package minimax picks moves for the computer by exhaustive game-tree search.
package minimax

import "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"

// Scores for terminal positions, from the computer's point of view. Depth is
// not taken into account: a quick win and a slow win score the same.
const (
    WinScore  = 10
    LossScore = -10
    TieScore  = 0
)

// NoMove is the index reported when the board has no empty cell.
const NoMove = -1

// Move is the outcome of a search. Index is NoMove when nothing can be played.
type Move struct {
    Score int
    Index int
    // Nodes counts the positions visited.
    Nodes int
}

// Found reports whether the search produced a playable index.
func (m Move) Found() bool { return m.Index != NoMove }

// BestMove searches b for the side to move. maximizing selects the computer as
// the side to move; otherwise the user moves. Among equally scored moves the
// lowest index wins.
func BestMove(b domain.Board, computer, user domain.Cell, maximizing bool) Move {
    s := searcher{computer: computer, user: user}
    // b is a copy; the search mutates it in place and restores every cell.
    score, index := s.search(&b, maximizing)
    return Move{Score: score, Index: index, Nodes: s.nodes}
}

type searcher struct {
    computer domain.Cell
    user     domain.Cell
    nodes    int
}

func (s *searcher) search(b *domain.Board, maximizing bool) (int, int) {
    s.nodes++
    if domain.HasWin(*b, s.computer) {
        return WinScore, NoMove
    }
    if domain.HasWin(*b, s.user) {
        return LossScore, NoMove
    }
    if domain.IsFull(*b) {
        return TieScore, NoMove
    }

    side := s.user
    if maximizing {
        side = s.computer
    }
    best, bestIndex := 0, NoMove
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        score := s.try(b, i, side, !maximizing)
        if bestIndex == NoMove ||
            (maximizing && score > best) ||
            (!maximizing && score < best) {
            best, bestIndex = score, i
        }
    }
    return best, bestIndex
}

// try places side at i for the duration of one nested search.
func (s *searcher) try(b *domain.Board, i int, side domain.Cell, maximizing bool) int {
    b[i] = side
    defer func() { b[i] = domain.Empty }()
    score, _ := s.search(b, maximizing)
    return score
}
