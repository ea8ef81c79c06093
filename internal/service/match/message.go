package match

import "github.com/dropfour/backend/internal/game"

// Message is the JSON envelope pushed to clients over the websocket.
type Message struct {
	Type        string      `json:"type"`
	Message     string      `json:"message,omitempty"`
	MatchID     string      `json:"matchId,omitempty"`
	Opponent    string      `json:"opponent,omitempty"`
	YourColor   int         `json:"yourColor,omitempty"`
	Column      int         `json:"column"`
	Row         int         `json:"row"`
	Player      int         `json:"player,omitempty"`
	Board       [][]int     `json:"board,omitempty"`
	NextTurn    int         `json:"nextTurn,omitempty"`
	Winner      string      `json:"winner,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	WinningLine []game.Cell `json:"winningLine,omitempty"`
}

// Messenger delivers messages to connected users. Implemented by the
// websocket connection manager.
type Messenger interface {
	Send(userID int64, msg Message) error
	Disconnect(userID int64, reason string)
}
