package chessdto

// BoardState is a game snapshot prepared for presentation.
type BoardState struct {
	GameID     string
	Room       string
	White      string
	Black      string
	WhiteID    string
	BlackID    string
	Turn       string
	Status     string
	Reason     string
	Winner     string
	Check      bool
	DrawOffer  string
	FEN        string
	LastSAN    string
	MovesSAN   []string
	MoveCount  int
	BoardImage []byte
}

// Concluded reports whether the game has ended.
func (s *BoardState) Concluded() bool {
	return s != nil && s.Status == "CONCLUDED"
}

// NameOf returns the display name for a participant id.
func (s *BoardState) NameOf(id string) string {
	if s == nil {
		return ""
	}
	switch id {
	case s.WhiteID:
		return s.White
	case s.BlackID:
		return s.Black
	}
	return ""
}

// SideToMove returns the display name of the player to move.
func (s *BoardState) SideToMove() string {
	if s == nil {
		return ""
	}
	if s.Turn == "black" {
		return s.Black
	}
	return s.White
}
