package domain

import "time"

// GameResult is the archived outcome of a finished two-player game.
type GameResult struct {
	GameID      string    `json:"game_id"`
	Room        string    `json:"room"`
	WhiteID     string    `json:"white_id"`
	WhiteName   string    `json:"white_name"`
	BlackID     string    `json:"black_id"`
	BlackName   string    `json:"black_name"`
	Result      string    `json:"result"`
	Termination string    `json:"termination"`
	WinnerID    string    `json:"winner_id,omitempty"`
	MovesUCI    []string  `json:"moves_uci"`
	MovesSAN    []string  `json:"moves_san"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// Duration is the wall-clock length of the game, zero when either end is unknown.
func (r GameResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}
	d := r.EndedAt.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Opponent returns the other player's id and name from the point of view of id.
func (r GameResult) Opponent(id string) (string, string) {
	if id == r.WhiteID {
		return r.BlackID, r.BlackName
	}
	return r.WhiteID, r.WhiteName
}

// Outcome returns "win", "loss" or "draw" for the given participant.
func (r GameResult) Outcome(id string) string {
	switch {
	case r.WinnerID == "":
		return "draw"
	case r.WinnerID == id:
		return "win"
	default:
		return "loss"
	}
}
