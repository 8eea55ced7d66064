package chessdto

// DomainError is a user-facing failure. Code is the message catalog key and Detail
// carries the template argument (for example an ambiguity hint).
type DomainError struct {
	Code      string
	Detail    string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Detail != "" {
		return e.Code + ": " + e.Detail
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess duel error"
}
