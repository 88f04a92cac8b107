package intake

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Events buffered per subscriber before it is dropped as too slow
	sendBuffer = 16
)

// Event is broadcast to feed subscribers for every accepted row
type Event struct {
	Type        string    `json:"type"` // "row"
	Row         int       `json:"row"`
	ID          string    `json:"id"`
	Form        string    `json:"form"`
	StudentName string    `json:"studentName"`
	Class       string    `json:"class"`
	Files       int       `json:"files"`
	Received    time.Time `json:"received"`
}

// eventFor summarizes row for the feed
func eventFor(row *Row) Event {
	return Event{
		Type:        "row",
		Row:         row.Number,
		ID:          row.ID,
		Form:        row.Form,
		StudentName: row.StudentName,
		Class:       row.Class,
		Files:       len(row.Files),
		Received:    row.Received,
	}
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans accepted rows out to websocket subscribers
type Hub struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Subscribers returns the number of connected subscribers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast queues ev for every subscriber. Subscribers whose buffer is
// full are disconnected.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub.send <- ev:
		default:
			logging.Warn("Dropping slow feed subscriber",
				zap.String("remote_addr", sub.conn.RemoteAddr().String()))
			delete(h.subs, sub)
			close(sub.send)
		}
	}
}

// ServeHTTP upgrades the request and streams events until the peer leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Feed upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan Event, sendBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	remoteAddr := conn.RemoteAddr().String()
	logging.LogConnection(remoteAddr, "feed_subscribed")

	go h.writeLoop(sub)
	h.readLoop(sub)

	logging.LogConnection(remoteAddr, "feed_closed")
}

// readLoop consumes control frames and unregisters sub when the peer goes away
func (h *Hub) readLoop(sub *subscriber) {
	defer h.remove(sub)

	sub.conn.SetReadLimit(512)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.send)
	}
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.send)
	}
}
