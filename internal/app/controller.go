package app

import (
    "errors"
    "math/rand"
    "sync"
    "time"

    "github.com/benbjohnson/clock"
    "github.com/sirupsen/logrus"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
    "github.com/jaminalder/minimax-tic-tac-toe/internal/minimax"
)

// Default delays for the timed continuations.
const (
    DefaultComputerDelay = 500 * time.Millisecond
    DefaultResetDelay    = 4 * time.Second
)

// ErrAlreadyStarted is returned by StartGame while a game is being played.
var ErrAlreadyStarted = errors.New("game already started")

// Options configures a Controller.
type Options struct {
    // ComputerMovesFirst gives the computer the opening move of every game.
    ComputerMovesFirst bool
    // RandomizeOpeningMove plays a random cell instead of searching when the
    // computer moves on an empty board.
    RandomizeOpeningMove bool
    ComputerDelay        time.Duration
    ResetDelay           time.Duration

    Clock clock.Clock
    // Intn returns a value in [0, n). Defaults to a time-seeded math/rand source.
    Intn   func(n int) int
    Logger logrus.FieldLogger
    // OnChange is called after every state transition, outside the controller lock.
    OnChange func(Snapshot)
}

func (o Options) withDefaults() Options {
    if o.ComputerDelay <= 0 {
        o.ComputerDelay = DefaultComputerDelay
    }
    if o.ResetDelay <= 0 {
        o.ResetDelay = DefaultResetDelay
    }
    if o.Clock == nil {
        o.Clock = clock.New()
    }
    if o.Intn == nil {
        r := rand.New(rand.NewSource(time.Now().UnixNano()))
        var mu sync.Mutex
        o.Intn = func(n int) int {
            mu.Lock()
            defer mu.Unlock()
            return r.Intn(n)
        }
    }
    if o.Logger == nil {
        o.Logger = logrus.StandardLogger()
    }
    return o
}

// Controller runs one human-versus-computer game at a time. All exported
// methods are safe to call from any goroutine; timed continuations take the
// same lock.
type Controller struct {
    opts  Options
    log   logrus.FieldLogger
    sched *Scheduler

    mu         sync.Mutex
    phase      Phase
    state      domain.State
    userFirst  bool
    generation uint64
}

// NewController returns an idle controller.
func NewController(opts Options) *Controller {
    opts = opts.withDefaults()
    return &Controller{
        opts:      opts,
        log:       opts.Logger,
        sched:     NewScheduler(opts.Clock),
        userFirst: !opts.ComputerMovesFirst,
    }
}

// SetUserPlaysFirst sets who opens the next game started or reset.
func (c *Controller) SetUserPlaysFirst(v bool) {
    c.mu.Lock()
    c.userFirst = v
    snap := c.snapshotLocked()
    c.mu.Unlock()
    c.notify(snap)
}

// StartGame assigns symbol to the user and the other one to the computer,
// then begins a fresh game.
func (c *Controller) StartGame(symbol domain.Cell) error {
    return c.start(symbol, nil)
}

// StartGameWith is StartGame with the first-move preference applied as part
// of the start. A failed start leaves the preference unchanged.
func (c *Controller) StartGameWith(symbol domain.Cell, userFirst bool) error {
    return c.start(symbol, &userFirst)
}

func (c *Controller) start(symbol domain.Cell, userFirst *bool) error {
    if !symbol.Valid() {
        return domain.ErrInvalidSymbol
    }
    c.mu.Lock()
    if c.phase == Playing {
        c.mu.Unlock()
        return ErrAlreadyStarted
    }
    if userFirst != nil {
        c.userFirst = *userFirst
    }
    if err := c.beginLocked(symbol); err != nil {
        c.mu.Unlock()
        return err
    }
    snap := c.snapshotLocked()
    c.mu.Unlock()
    c.notify(snap)
    return nil
}

// ResetGame clears the board and starts a rematch with the same symbols.
// It does nothing while idle.
func (c *Controller) ResetGame() {
    c.mu.Lock()
    if c.phase == Idle {
        c.mu.Unlock()
        return
    }
    if err := c.beginLocked(c.state.User); err != nil {
        c.mu.Unlock()
        c.log.WithError(err).Error("reset game")
        return
    }
    snap := c.snapshotLocked()
    c.mu.Unlock()
    c.notify(snap)
}

// HandleUserMove plays the user's symbol at index. Clicks on occupied cells,
// out of turn, after the game ended or before it started are ignored; the
// return value reports whether the move was taken.
func (c *Controller) HandleUserMove(index int) bool {
    c.mu.Lock()
    if c.phase != Playing || c.state.Turn != domain.AwaitingUser {
        c.mu.Unlock()
        return false
    }
    if err := c.state.ApplyMove(index, c.state.User); err != nil {
        c.mu.Unlock()
        c.log.WithFields(logrus.Fields{"index": index, "reason": err}).Debug("user move ignored")
        return false
    }
    c.log.WithFields(logrus.Fields{"index": index, "symbol": c.state.User}).Debug("user moved")
    c.afterMoveLocked()
    snap := c.snapshotLocked()
    c.mu.Unlock()
    c.notify(snap)
    return true
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.snapshotLocked()
}

// Pending returns the number of scheduled continuations.
func (c *Controller) Pending() int { return c.sched.Pending() }

// Close cancels every scheduled continuation.
func (c *Controller) Close() {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.generation++
    c.sched.CancelAll()
}

// beginLocked starts a new generation with an empty board.
func (c *Controller) beginLocked(user domain.Cell) error {
    opener := domain.AwaitingUser
    if !c.userFirst {
        opener = domain.AwaitingComputer
    }
    st, err := domain.New(user, opener)
    if err != nil {
        return err
    }
    c.invalidateLocked()
    c.state = st
    c.phase = Playing
    c.log.WithFields(logrus.Fields{
        "user":       st.User,
        "computer":   st.Computer,
        "opener":     opener,
        "generation": c.generation,
    }).Info("game started")
    if opener == domain.AwaitingComputer {
        c.scheduleComputerLocked()
    }
    return nil
}

// invalidateLocked drops every outstanding continuation.
func (c *Controller) invalidateLocked() {
    c.generation++
    if n := c.sched.CancelAll(); n > 0 {
        c.log.WithField("cancelled", n).Debug("stale continuations dropped")
    }
}

// afterMoveLocked either finishes the game or hands the turn to the computer.
func (c *Controller) afterMoveLocked() {
    if c.state.Result.Outcome != domain.Ongoing {
        c.phase = Finished
        c.log.WithFields(logrus.Fields{
            "result": ResultText(c.state.Result, c.state.User),
            "moves":  c.state.Moves,
        }).Info("game finished")
        gen := c.generation
        c.sched.After(c.opts.ResetDelay, func() { c.idle(gen) })
        return
    }
    if c.state.Turn == domain.AwaitingComputer {
        c.scheduleComputerLocked()
    }
}

func (c *Controller) scheduleComputerLocked() {
    gen := c.generation
    c.sched.After(c.opts.ComputerDelay, func() { c.computerMove(gen) })
}

func (c *Controller) computerMove(gen uint64) {
    c.mu.Lock()
    if gen != c.generation || c.phase != Playing || c.state.Turn != domain.AwaitingComputer {
        c.mu.Unlock()
        return
    }
    index := c.chooseLocked()
    if index == minimax.NoMove {
        c.mu.Unlock()
        c.log.Warn("computer has no move")
        return
    }
    if err := c.state.ApplyMove(index, c.state.Computer); err != nil {
        c.mu.Unlock()
        c.log.WithError(err).WithField("index", index).Error("computer move rejected")
        return
    }
    c.afterMoveLocked()
    snap := c.snapshotLocked()
    c.mu.Unlock()
    c.notify(snap)
}

func (c *Controller) chooseLocked() int {
    b := c.state.Board
    if c.opts.RandomizeOpeningMove && b.Count(domain.Empty) == len(b) {
        index := c.opts.Intn(len(b))
        c.log.WithField("index", index).Debug("computer opened at random")
        return index
    }
    m := minimax.BestMove(b, c.state.Computer, c.state.User, true)
    c.log.WithFields(logrus.Fields{
        "index": m.Index,
        "score": m.Score,
        "nodes": m.Nodes,
    }).Debug("computer searched")
    return m.Index
}

// idle returns to the pre-game shape once a finished game has been shown.
func (c *Controller) idle(gen uint64) {
    c.mu.Lock()
    if gen != c.generation || c.phase != Finished {
        c.mu.Unlock()
        return
    }
    c.generation++
    c.phase = Idle
    c.state = domain.State{}
    snap := c.snapshotLocked()
    c.mu.Unlock()
    c.log.Debug("controller idle")
    c.notify(snap)
}

func (c *Controller) snapshotLocked() Snapshot {
    s := Snapshot{
        Board:      c.state.Board,
        Phase:      c.phase,
        Turn:       c.state.Turn,
        User:       c.state.User,
        Computer:   c.state.Computer,
        Result:     c.state.Result,
        Moves:      c.state.Moves,
        UserFirst:  c.userFirst,
        Generation: c.generation,
    }
    if c.phase == Finished {
        s.Message = ResultText(s.Result, s.User)
    }
    return s
}

func (c *Controller) notify(s Snapshot) {
    if c.opts.OnChange != nil {
        c.opts.OnChange(s)
    }
}
