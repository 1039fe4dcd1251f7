package live

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/metrics"
)

// ErrHubClosed is returned by Serve once the hub was shut down.
var ErrHubClosed = errors.New("live hub closed")

// Event is the message pushed to live views.
type Event struct {
	Type     string `json:"type"`
	Balance  string `json:"balance,omitempty"`
	Currency string `json:"currency,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

const eventBalance = "balance"

// Hub tracks open live views per session and fans balance updates out to them.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]map[*client]struct{}
	sessions map[string]model.Session
	closed   bool

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub builds a hub accepting upgrades from allowedOrigin, or from any
// origin when it is empty.
func NewHub(allowedOrigin string, logger *slog.Logger) *Hub {
	return &Hub{
		clients:  make(map[string]map[*client]struct{}),
		sessions: make(map[string]model.Session),
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Serve upgrades the request and keeps the live view open until the peer
// leaves. initial, when set, is pushed right away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sess *model.Session, initial *model.User) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	var first []byte
	if initial != nil {
		if first, err = balanceEvent(initial); err != nil {
			h.logger.Error("encode live event", slog.String("error", err.Error()))
		}
	}

	c := newClient(sess.ID, conn, h, h.logger)
	if !h.register(c, *sess, first) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		_ = conn.Close()
		return ErrHubClosed
	}

	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) register(c *client, sess model.Session, first []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if first != nil {
		c.send <- first
	}
	set, ok := h.clients[c.sessionID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.sessionID] = set
	}
	set[c] = struct{}{}
	h.sessions[c.sessionID] = sess
	metrics.LiveConnections.Inc()
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	set, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	metrics.LiveConnections.Dec()
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
		delete(h.sessions, c.sessionID)
	}
}

// Sessions lists the sessions with at least one open live view, ordered by
// session ID.
func (h *Hub) Sessions() []model.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Publish pushes the user's balance to every live view of sessionID and
// reports how many views were reached. Slow views miss the update.
func (h *Hub) Publish(sessionID string, user *model.User) int {
	msg, err := balanceEvent(user)
	if err != nil {
		h.logger.Error("encode live event", slog.String("error", err.Error()))
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for c := range h.clients[sessionID] {
		select {
		case c.send <- msg:
			delivered++
		default:
			h.logger.Debug("live view lagging, update dropped", slog.String("session_id", sessionID))
		}
	}
	return delivered
}

// Close ends every live view of sessionID.
func (h *Hub) Close(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[sessionID] {
		h.removeLocked(c)
	}
}

// Shutdown ends all live views and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}

func balanceEvent(user *model.User) ([]byte, error) {
	return json.Marshal(Event{
		Type:     eventBalance,
		Balance:  user.Balance.String(),
		Currency: model.Currency,
		Verified: user.Verified,
	})
}
