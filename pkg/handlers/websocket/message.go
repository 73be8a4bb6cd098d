package websocket

import (
	"sync"

	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/gofiber/contrib/websocket"
)

const (
	MessageConnected = "connected"
	MessageProgress  = "progress"
	MessageResult    = "result"
	MessageError     = "error"
)

// RemovalRequest is the single frame a client sends after connecting.
// Browsers cannot set headers on a websocket handshake, so the bearer
// token travels in the payload.
type RemovalRequest struct {
	Token string `json:"token"`
	request.RemoveRequest
}

type ServerMessage struct {
	Type     string                     `json:"type"`
	Message  string                     `json:"message,omitempty"`
	Progress *appFollower.Progress      `json:"progress,omitempty"`
	Result   *appFollower.RemovalResult `json:"result,omitempty"`
	Error    string                     `json:"error,omitempty"`
	Details  []request.FieldError       `json:"details,omitempty"`
}

type writer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *writer) send(msg ServerMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(msg)
}

func (w *writer) fail(text string, details []request.FieldError) {
	_ = w.send(ServerMessage{Type: MessageError, Error: text, Details: details})
	w.close(websocket.ClosePolicyViolation, text)
}

func (w *writer) close(code int, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, text))
}
