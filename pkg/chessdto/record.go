package chessdto

import "time"

// GameRecord is a finished game from one participant's point of view.
type GameRecord struct {
	GameID       string
	Opponent     string
	OpponentName string
	Outcome      string // win | loss | draw
	Result       string // PGN token
	Termination  string
	Moves        int
	EndedAt      time.Time
	Duration     time.Duration
}
