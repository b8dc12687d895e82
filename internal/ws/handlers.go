package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/orderstream/notifier/internal/httputil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     CheckOrigin,
}

// Handler upgrades HTTP connections to push connections and exposes the
// operator broadcast endpoint.
type Handler struct {
	hub       *Hub
	queueSize int
}

func NewHandler(hub *Hub, queueSize int) *Handler {
	return &Handler{hub: hub, queueSize: queueSize}
}

// RegisterRoutes wires the push-connection and broadcast endpoints.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.ServeWS).Methods(http.MethodGet)
	r.HandleFunc("/broadcast", h.Broadcast).Methods(http.MethodPost)
}

// ServeWS upgrades a GET /ws request to a push connection. The customer
// identity arrives as the customer_id query parameter at handshake time.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already wrote the error response.
		return
	}

	session := NewSession(h.hub, conn, customerID, h.queueSize)
	h.hub.Register(session)

	go session.WritePump()
	go session.ReadPump()
}

type broadcastRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Broadcast fans an operator announcement out to every connected session.
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		httputil.WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	payload, err := json.Marshal(map[string]any{
		"type":      "broadcast",
		"timestamp": time.Now().UTC(),
		"data": map[string]any{
			"subject": req.Subject,
			"message": req.Message,
		},
	})
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to encode broadcast")
		return
	}

	delivered := h.hub.BroadcastToAll(payload)
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"delivered": delivered})
}
