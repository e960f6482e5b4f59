package ws

import "encoding/json"

// MessageType constants for the WebSocket protocol.
const (
	// Client -> Server
	TypeJoin   = "join"
	TypeStart  = "start"
	TypeSubmit = "submit"
	TypeChat   = "chat"

	// Server -> Client
	TypePlayersUpdated = "players-updated"
	TypeQuestionBegan  = "question-began"
	TypeTimeUpdate     = "time-update"
	TypePlayerFound    = "player-found"
	TypeWrongAttempt   = "wrong-attempt"
	TypeReveal         = "reveal"
	TypeGameOver       = "game-over"
	TypeError          = "error"
)

// Error codes sent in TypeError payloads.
const (
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
)

// Message wraps all WebSocket payloads with a type tag.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a typed message. Payload types are plain
// structs so marshalling cannot fail.
func NewMessage(msgType string, payload any) Message {
	msg := Message{Type: msgType}
	if payload != nil {
		msg.Payload, _ = json.Marshal(payload)
	}
	return msg
}

// Client messages (incoming)

type JoinPayload struct {
	Name string `json:"name"`
}

type SubmitPayload struct {
	Text string `json:"text"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

// Server messages (outgoing)

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type PlayersUpdatedPayload struct {
	Players []Player `json:"players"`
}

type QuestionBeganPayload struct {
	Prompt        string `json:"prompt"`
	RoundNumber   int    `json:"round_number"`
	TimeRemaining int    `json:"time_remaining"`
}

type TimeUpdatePayload struct {
	TimeRemaining int `json:"time_remaining"`
}

type PlayerFoundPayload struct {
	PlayerID string         `json:"player_id"`
	Found    []string       `json:"found"`
	Scores   map[string]int `json:"scores"`
}

type WrongAttemptPayload struct {
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}

type RevealPayload struct {
	Answer string `json:"answer"`
}

type GameOverPayload struct {
	WinnerName  string `json:"winner_name"`
	WinnerScore int    `json:"winner_score"`
}

type ChatBroadcastPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
