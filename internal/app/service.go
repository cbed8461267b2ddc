package app

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

// Errors exposed by the service layer.
var (
    ErrNotFound   = errors.New("session not found")
    ErrNotAPlayer = errors.New("not a player")
)

// View is the state of one session as seen by a client.
type View struct {
    ID      string    `json:"id"`
    Owner   string    `json:"-"`
    Created time.Time `json:"created"`
    Updated time.Time `json:"updated"`
    Snapshot
}

type session struct {
    id      string
    owner   string
    created time.Time
    updated time.Time
    ctrl    *Controller
}

func (ss *session) view(snap Snapshot) View {
    return View{ID: ss.id, Owner: ss.owner, Created: ss.created, Updated: ss.updated, Snapshot: snap}
}

// subscriberBuffer is how many undelivered views a subscriber may hold before it is dropped.
const subscriberBuffer = 4

type subscriber struct {
    ch        chan View
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service keeps one controller per session and fans changes out to subscribers.
type Service struct {
    opts Options
    log  logrus.FieldLogger

    mu       sync.Mutex
    sessions map[string]*session
    subs     map[string]map[*subscriber]struct{}
}

// NewService creates a service whose controllers are built from opts.
// opts.OnChange is replaced by the service's own fan-out.
func NewService(opts Options) *Service {
    opts = opts.withDefaults()
    return &Service{
        opts:     opts,
        log:      opts.Logger,
        sessions: make(map[string]*session),
        subs:     make(map[string]map[*subscriber]struct{}),
    }
}

// CreateSession registers a new idle session owned by owner.
func (s *Service) CreateSession(owner string) (*View, error) {
    if owner == "" {
        return nil, ErrNotAPlayer
    }
    id := newSessionID()
    opts := s.opts
    opts.Logger = s.log.WithField("session", id)
    opts.OnChange = func(snap Snapshot) { s.publish(id, snap) }

    now := time.Now()
    ss := &session{id: id, owner: owner, created: now, updated: now, ctrl: NewController(opts)}

    s.mu.Lock()
    s.sessions[id] = ss
    v := ss.view(ss.ctrl.Snapshot())
    s.mu.Unlock()

    opts.Logger.Info("session created")
    return &v, nil
}

// Get returns the current view of a session if present.
func (s *Service) Get(id string) (*View, bool) {
    ss, err := s.lookup(id, "")
    if err != nil {
        return nil, false
    }
    v := s.viewOf(ss)
    return &v, true
}

// Start begins a game in the session with the user on symbol.
func (s *Service) Start(id, player string, symbol domain.Cell, userFirst bool) (*View, error) {
    ss, err := s.lookup(id, player)
    if err != nil {
        return nil, err
    }
    if err := ss.ctrl.StartGameWith(symbol, userFirst); err != nil {
        return nil, fmt.Errorf("start game: %w", err)
    }
    v := s.viewOf(ss)
    return &v, nil
}

// Move plays the user's symbol at index. Ignored clicks are not errors; the
// returned view simply shows no change.
func (s *Service) Move(id, player string, index int) (*View, error) {
    ss, err := s.lookup(id, player)
    if err != nil {
        return nil, err
    }
    ss.ctrl.HandleUserMove(index)
    v := s.viewOf(ss)
    return &v, nil
}

// Reset starts a rematch with the same symbols.
func (s *Service) Reset(id, player string) (*View, error) {
    ss, err := s.lookup(id, player)
    if err != nil {
        return nil, err
    }
    ss.ctrl.ResetGame()
    v := s.viewOf(ss)
    return &v, nil
}

// Subscribe registers a subscriber for a session. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan View, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.sessions[id]; !ok {
        return nil, nil, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan View, subscriberBuffer)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}

// Close stops every controller and closes all subscriber channels.
func (s *Service) Close() {
    s.mu.Lock()
    sessions := make([]*session, 0, len(s.sessions))
    for _, ss := range s.sessions {
        sessions = append(sessions, ss)
    }
    for id, set := range s.subs {
        for sub := range set {
            sub.close()
        }
        delete(s.subs, id)
    }
    s.mu.Unlock()
    for _, ss := range sessions {
        ss.ctrl.Close()
    }
}

func (s *Service) lookup(id, player string) (*session, error) {
    if !validSessionID(id) {
        return nil, ErrNotFound
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    ss, ok := s.sessions[id]
    if !ok {
        return nil, ErrNotFound
    }
    if player != "" && ss.owner != player {
        return nil, ErrNotAPlayer
    }
    return ss, nil
}

func (s *Service) viewOf(ss *session) View {
    snap := ss.ctrl.Snapshot()
    s.mu.Lock()
    defer s.mu.Unlock()
    return ss.view(snap)
}

// publish records a controller change and fans it out; slow subscribers are dropped.
func (s *Service) publish(id string, snap Snapshot) {
    s.mu.Lock()
    defer s.mu.Unlock()
    ss, ok := s.sessions[id]
    if !ok {
        return
    }
    ss.updated = time.Now()
    v := ss.view(snap)

    // Sends never block; unsubscribe cannot close a channel while the lock is held.
    dropped := 0
    for sub := range s.subs[id] {
        select {
        case sub.ch <- v:
        default:
            // drop slow subscriber
            delete(s.subs[id], sub)
            sub.close()
            dropped++
        }
    }
    if dropped > 0 {
        s.log.WithFields(logrus.Fields{"session": id, "dropped": dropped}).Debug("slow subscribers dropped")
    }
}
