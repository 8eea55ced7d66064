package irisfast

import "strings"

// Message is an inbound chat event pushed by the Iris bridge.
type Message struct {
	Msg    string       `json:"msg"`
	Room   string       `json:"room"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageJSON `json:"json,omitempty"`
}

// MessageJSON carries the structured part of a chat event.
type MessageJSON struct {
	UserID   string    `json:"user_id"`
	ChatID   string    `json:"chat_id,omitempty"`
	Mentions []Mention `json:"mentions,omitempty"`
}

// Mention is a user tagged in the message text.
type Mention struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Bot    bool   `json:"bot,omitempty"`
}

// UserID returns the sender's stable id, falling back to the display name.
func (m *Message) UserID() string {
	if m == nil {
		return ""
	}
	if m.JSON != nil && strings.TrimSpace(m.JSON.UserID) != "" {
		return strings.TrimSpace(m.JSON.UserID)
	}
	if m.Sender != nil {
		return strings.TrimSpace(*m.Sender)
	}
	return ""
}

// SenderName returns the display name of the sender.
func (m *Message) SenderName() string {
	if m == nil {
		return ""
	}
	if m.Sender != nil && strings.TrimSpace(*m.Sender) != "" {
		return strings.TrimSpace(*m.Sender)
	}
	return m.UserID()
}

// Mentions returns the tagged users, empty when none.
func (m *Message) Mentions() []Mention {
	if m == nil || m.JSON == nil {
		return nil
	}
	return m.JSON.Mentions
}

// Config is the bridge configuration returned by GET /config.
type Config struct {
	BotName           string `json:"bot_name"`
	Port              int    `json:"bot_http_port"`
	WebserverEndpoint string `json:"web_server_endpoint"`
	PollingSpeed      int    `json:"db_polling_rate"`
	MessageRate       int    `json:"message_send_rate"`
}

// ReplyRequest is the payload for POST /reply and outbound ws frames.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

type WebSocketState int

const (
	WSStateDisconnected WebSocketState = iota
	WSStateConnecting
	WSStateConnected
	WSStateReconnecting
	WSStateFailed
)

func (s WebSocketState) String() string {
	switch s {
	case WSStateConnecting:
		return "connecting"
	case WSStateConnected:
		return "connected"
	case WSStateReconnecting:
		return "reconnecting"
	case WSStateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}
