package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dropfour/backend/internal/config"
	authsvc "github.com/dropfour/backend/internal/service/auth"
	"github.com/dropfour/backend/internal/service/lobby"
	"github.com/dropfour/backend/internal/service/match"
	"github.com/dropfour/backend/pkg/auth"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// ClientMessage is what the browser sends over the socket.
type ClientMessage struct {
	Type       string `json:"type"`
	Token      string `json:"token,omitempty"`
	Column     int    `json:"column"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Handler upgrades HTTP requests and routes socket messages to the lobby and
// match services.
type Handler struct {
	conns    *ConnectionManager
	lobby    *lobby.Service
	matches  *match.Manager
	auth     *authsvc.Service
	upgrader websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, lb *lobby.Service, mgr *match.Manager, as *authsvc.Service) *Handler {
	return &Handler{
		conns:   cm,
		lobby:   lb,
		matches: mgr,
		auth:    as,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range config.AppConfig.AllowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// ServeWS upgrades the request and runs the connection to completion.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}
	h.serve(conn)
}

func (h *Handler) serve(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
					return
				}
			}
		}
	}()

	// The first frame has to be an init carrying the access token; anything
	// else gets the socket closed.
	claims, ok := h.initConnection(conn)
	if !ok {
		conn.Close()
		return
	}
	userID, username := claims.UserID, claims.Username
	h.conns.Add(userID, conn, username)
	log.Printf("[WS] %s connected (id=%d)", username, userID)

	defer func() {
		log.Printf("[WS] %s disconnected", username)
		h.lobby.LeaveQueue(userID)
		if s, ok := h.matches.GetByUserID(userID); ok {
			s.HandleDisconnect(userID, h.conns)
		}
		h.conns.RemoveIfCurrent(userID, conn)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] %s dropped: %v", username, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] bad frame from %s: %v", username, err)
			continue
		}

		// Tokens are revalidated on every frame so a logout or a login from
		// another device cuts this connection off at its next message.
		if msg.Token != "" {
			if _, err := h.auth.ValidateToken(msg.Token); err != nil {
				h.conns.Send(userID, match.Message{Type: "error", Message: "session expired"})
				return
			}
		}

		h.route(userID, username, msg)
	}
}

func (h *Handler) initConnection(conn *websocket.Conn) (*auth.Claims, bool) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("[WS] init read failed: %v", err)
		return nil, false
	}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "init" || msg.Token == "" {
		log.Println("[WS] connection rejected: missing init")
		return nil, false
	}

	claims, err := h.auth.ValidateToken(msg.Token)
	if err != nil {
		log.Printf("[WS] init token rejected: %v", err)
		conn.WriteJSON(match.Message{Type: "error", Message: "invalid or expired token"})
		return nil, false
	}
	return claims, true
}

func (h *Handler) route(userID int64, username string, msg ClientMessage) {
	switch msg.Type {
	case "join_queue":
		h.lobby.JoinQueue(userID, username)

	case "leave_queue":
		h.lobby.LeaveQueue(userID)
		h.conns.Send(userID, match.Message{Type: "queue_left"})

	case "play_bot":
		h.lobby.PlayBot(userID, username, msg.Difficulty)

	case "move":
		s, ok := h.matches.GetByUserID(userID)
		if !ok {
			h.conns.Send(userID, match.Message{Type: "error", Message: "no active match"})
			return
		}
		if err := s.HandleMove(userID, msg.Column, h.conns); err != nil {
			h.conns.Send(userID, match.Message{Type: "error", Message: err.Error()})
		}

	case "resign":
		s, ok := h.matches.GetByUserID(userID)
		if !ok {
			h.conns.Send(userID, match.Message{Type: "error", Message: "no active match"})
			return
		}
		if err := s.Resign(userID, h.conns); err != nil {
			h.conns.Send(userID, match.Message{Type: "error", Message: err.Error()})
		}

	default:
		h.conns.Send(userID, match.Message{Type: "error", Message: "unknown message type"})
	}
}
