package pvpchess

import (
	"errors"
	"fmt"
	"strings"

	"github.com/park285/chessduel/internal/notation"
)

var (
	ErrNoPieceOfType   = errors.New("no piece of that type")
	ErrIllegalMove     = errors.New("illegal move")
	ErrAmbiguousMove   = errors.New("ambiguous move")
	ErrWrongTurn       = errors.New("not your turn")
	ErrNotParticipant  = errors.New("not a participant of this game")
	ErrGameOver        = errors.New("game already concluded")
	ErrAlreadyInGame   = errors.New("participant already in a game")
	ErrInvalidOpponent = errors.New("invalid opponent")
	ErrNoSession       = errors.New("no active game")
	ErrSessionBusy     = errors.New("game is handling another command")
	ErrNotInitialized  = errors.New("pvp manager not initialized")
)

// ResolveError explains why a partial move did not resolve to exactly one legal move.
// For ambiguous moves Candidates lists every legal origin.
type ResolveError struct {
	Move       notation.PartialMove
	Candidates []notation.Square
	Err        error
}

func (e *ResolveError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("resolve %s: %v", e.Move, e.Err)
	}
	return fmt.Sprintf("resolve %s: %v (candidates: %s)", e.Move, e.Err, e.Hint())
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Hint returns the candidate origins re-specified in prefix notation, e.g. "a1Rd1, h1Rd1".
func (e *ResolveError) Hint() string {
	parts := make([]string, 0, len(e.Candidates))
	for _, sq := range e.Candidates {
		mv := e.Move
		o := notation.Origin{File: sq.File, Rank: sq.Rank}
		mv.Origin = &o
		mv.Capture = false
		parts = append(parts, mv.String())
	}
	return strings.Join(parts, ", ")
}

// StartError names the participant that blocked a new game.
type StartError struct {
	Participant string
	Err         error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start game: %s: %v", e.Participant, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }
