package chesspresenter

import (
	"errors"

	"github.com/park285/chessduel/internal/domain"
	"github.com/park285/chessduel/internal/notation"
	"github.com/park285/chessduel/internal/pvpchess"
	"github.com/park285/chessduel/pkg/chessdto"
)

// ToBoardState converts a session view plus an optional rendered image.
func ToBoardState(v *pvpchess.View, image []byte) *chessdto.BoardState {
	if v == nil {
		return nil
	}
	s := &chessdto.BoardState{
		GameID:     v.ID,
		Room:       v.Room,
		White:      v.White.Label(),
		Black:      v.Black.Label(),
		WhiteID:    v.White.ID,
		BlackID:    v.Black.ID,
		Turn:       string(v.Turn),
		Status:     string(v.Status),
		Reason:     string(v.Reason),
		Check:      v.Check,
		FEN:        v.FEN,
		MovesSAN:   append([]string(nil), v.MovesSAN...),
		MoveCount:  len(v.MovesSAN),
		BoardImage: image,
	}
	if v.Winner != "" {
		s.Winner = v.Player(v.ColorOf(v.Winner)).Label()
	}
	if v.DrawOffer != "" {
		s.DrawOffer = v.Player(v.ColorOf(v.DrawOffer)).Label()
	}
	if n := len(v.MovesSAN); n > 0 {
		s.LastSAN = v.MovesSAN[n-1]
	}
	return s
}

// FromUpdate converts a manager update.
func FromUpdate(u *pvpchess.Update) *chessdto.BoardState {
	if u == nil {
		return nil
	}
	return ToBoardState(u.View, u.Image)
}

// ToGameRecords converts archived results from participant's point of view.
func ToGameRecords(participant string, results []domain.GameResult) []chessdto.GameRecord {
	out := make([]chessdto.GameRecord, 0, len(results))
	for _, r := range results {
		oppID, oppName := r.Opponent(participant)
		if oppName == "" {
			oppName = oppID
		}
		moves := len(r.MovesSAN)
		if moves == 0 {
			moves = len(r.MovesUCI)
		}
		out = append(out, chessdto.GameRecord{
			GameID:       r.GameID,
			Opponent:     oppID,
			OpponentName: oppName,
			Outcome:      r.Outcome(participant),
			Result:       r.Result,
			Termination:  r.Termination,
			Moves:        moves,
			EndedAt:      r.EndedAt,
			Duration:     r.Duration(),
		})
	}
	return out
}

// ToDomainError maps a command failure to its catalog key. requester is the user who
// issued the command, used to tell "you are busy" from "your opponent is busy".
func ToDomainError(err error, requester string) chessdto.DomainError {
	var (
		rerr *pvpchess.ResolveError
		serr *pvpchess.StartError
	)
	switch {
	case err == nil:
		return chessdto.DomainError{}
	case errors.Is(err, notation.ErrMissingPromotion):
		return chessdto.DomainError{Code: "move.missing_promotion"}
	case errors.Is(err, notation.ErrMalformedMove):
		return chessdto.DomainError{Code: "move.malformed"}
	case errors.As(err, &rerr) && errors.Is(err, pvpchess.ErrAmbiguousMove):
		return chessdto.DomainError{Code: "move.ambiguous", Detail: rerr.Hint()}
	case errors.Is(err, pvpchess.ErrNoPieceOfType):
		return chessdto.DomainError{Code: "move.no_piece"}
	case errors.Is(err, pvpchess.ErrIllegalMove):
		return chessdto.DomainError{Code: "move.illegal"}
	case errors.Is(err, pvpchess.ErrWrongTurn):
		return chessdto.DomainError{Code: "move.wrong_turn"}
	case errors.Is(err, pvpchess.ErrSessionBusy):
		return chessdto.DomainError{Code: "move.busy", Retryable: true}
	case errors.As(err, &serr) && errors.Is(err, pvpchess.ErrAlreadyInGame):
		if serr.Participant == requester {
			return chessdto.DomainError{Code: "start.self_in_game"}
		}
		return chessdto.DomainError{Code: "start.opponent_in_game"}
	case errors.Is(err, pvpchess.ErrAlreadyInGame):
		return chessdto.DomainError{Code: "start.self_in_game"}
	case errors.Is(err, pvpchess.ErrInvalidOpponent):
		return chessdto.DomainError{Code: "start.invalid_opponent"}
	case errors.Is(err, pvpchess.ErrNoSession):
		return chessdto.DomainError{Code: "game.none"}
	case errors.Is(err, pvpchess.ErrNotParticipant):
		return chessdto.DomainError{Code: "game.not_participant"}
	case errors.Is(err, pvpchess.ErrGameOver):
		return chessdto.DomainError{Code: "game.over"}
	default:
		return chessdto.DomainError{Code: "error.internal", Retryable: true}
	}
}
