package pvpchess

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ColorPreference is the side the requester asks for when starting a game.
type ColorPreference string

const (
	PreferWhite  ColorPreference = "white"
	PreferBlack  ColorPreference = "black"
	PreferRandom ColorPreference = "random"
)

// ParseColorPreference maps user input to a preference; unknown input means white.
func ParseColorPreference(s string) ColorPreference {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return PreferBlack
	case "random", "r", "any":
		return PreferRandom
	default:
		return PreferWhite
	}
}

// StartRequest asks for a new game between Requester and Opponent.
type StartRequest struct {
	Requester Participant
	Opponent  Participant
	Preferred ColorPreference
	Room      string
}

// Registry tracks live sessions. A participant belongs to at most one live session,
// and a session is handed to at most one command at a time through Checkout.
type Registry struct {
	mu       sync.Mutex
	parked   map[string]*Session // session id -> session waiting for a command
	busy     map[string]struct{} // session ids currently checked out
	byPlayer map[string]string   // participant id -> session id
	newBoard func() BoardOracle
}

func NewRegistry() *Registry {
	return &Registry{
		parked:   make(map[string]*Session),
		busy:     make(map[string]struct{}),
		byPlayer: make(map[string]string),
		newBoard: func() BoardOracle { return NewStandardOracle() },
	}
}

// StartSession creates a game for the pair unless either side already plays one.
func (r *Registry) StartSession(req StartRequest) (*View, error) {
	a := strings.TrimSpace(req.Requester.ID)
	b := strings.TrimSpace(req.Opponent.ID)
	if a == "" || b == "" || a == b {
		return nil, ErrInvalidOpponent
	}
	req.Requester.ID, req.Opponent.ID = a, b
	white, black := req.Requester, req.Opponent
	switch req.Preferred {
	case PreferBlack:
		white, black = black, white
	case PreferRandom:
		if n, _ := rand.Int(rand.Reader, big.NewInt(2)); n != nil && n.Int64() == 0 {
			white, black = black, white
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range []string{a, b} {
		if _, ok := r.byPlayer[id]; ok {
			return nil, &StartError{Participant: id, Err: ErrAlreadyInGame}
		}
	}
	s, err := NewSession(uuid.NewString(), strings.TrimSpace(req.Room), white, black, r.newBoard())
	if err != nil {
		return nil, err
	}
	r.parked[s.id] = s
	r.byPlayer[white.ID] = s.id
	r.byPlayer[black.ID] = s.id
	return s.Snapshot(), nil
}

// Checkout removes the participant's session from the registry and returns it.
// It returns nil when the participant has no live session or the session is
// already checked out by another command.
func (r *Registry) Checkout(participant string) *Session {
	s, _ := r.acquire(participant)
	return s
}

func (r *Registry) acquire(participant string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPlayer[strings.TrimSpace(participant)]
	if !ok {
		return nil, ErrNoSession
	}
	if _, out := r.busy[id]; out {
		return nil, ErrSessionBusy
	}
	s := r.parked[id]
	delete(r.parked, id)
	r.busy[id] = struct{}{}
	return s, nil
}

// Checkin returns a session after a command. Concluded sessions are discarded and
// their participants become free to start new games.
func (r *Registry) Checkin(s *Session) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.busy, s.id)
	if s.Concluded() {
		for _, p := range []string{s.white.ID, s.black.ID} {
			if r.byPlayer[p] == s.id {
				delete(r.byPlayer, p)
			}
		}
		return
	}
	r.parked[s.id] = s
}

// WithSession checks out the participant's session, runs fn, and checks it back in
// on every exit path including panics.
func (r *Registry) WithSession(participant string, fn func(*Session) error) error {
	s, err := r.acquire(participant)
	if err != nil {
		return err
	}
	defer r.Checkin(s)
	return fn(s)
}

// InGame reports whether the participant owns a live session.
func (r *Registry) InGame(participant string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byPlayer[strings.TrimSpace(participant)]
	return ok
}

// Len returns the number of live sessions, including checked out ones.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.parked) + len(r.busy)
}

// Lookup returns a snapshot of the participant's session when it is parked.
// A checked-out session is being mutated and is not observed.
func (r *Registry) Lookup(participant string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPlayer[strings.TrimSpace(participant)]
	if !ok {
		return nil, false
	}
	s, ok := r.parked[id]
	if !ok {
		return nil, false
	}
	return s.Snapshot(), true
}
