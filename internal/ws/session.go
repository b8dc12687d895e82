package ws

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait is the maximum time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// pongWait is the maximum time to wait for a pong reply from the peer.
	pongWait = 60 * time.Second
	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize is the maximum inbound message size in bytes. Clients
	// have no inbound protocol, so anything beyond control frames is noise.
	maxMessageSize = 512

	defaultQueueSize = 64
)

// Session is one live push connection: the socket, its bounded outbound
// queue, and connection metadata. The session owns the socket; the Hub only
// tracks membership. A customer may hold any number of concurrent sessions.
type Session struct {
	ID          string
	CustomerID  string
	RemoteAddr  string
	ConnectedAt time.Time

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewSession creates a Session for an upgraded connection. queueSize bounds
// the outbound queue; a full queue marks the session dead (see
// Hub.SendToCustomer).
func NewSession(hub *Hub, conn *websocket.Conn, customerID string, queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Session{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		RemoteAddr:  conn.RemoteAddr().String(),
		ConnectedAt: time.Now().UTC(),
		conn:        conn,
		send:        make(chan []byte, queueSize),
		hub:         hub,
	}
}

// ReadPump consumes the connection's inbound side. Clients send nothing
// after the handshake; the pump exists to run the keepalive machinery and
// to detect disconnects. It runs in its own goroutine per session.
func (s *Session) ReadPump() {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: session %s read error: %v", s.ID, err)
			}
			return
		}
		// Inbound frames are ignored.
	}
}

// WritePump drains the outbound queue onto the socket and pings the peer.
// It runs in its own goroutine per session and exits when the hub closes
// the queue or a write fails.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the queue.
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
