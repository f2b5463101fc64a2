// Package spectator implements a read-only broadcast surface: a
// websocket feed of newly composed authoritative steps. Nothing a
// spectator sends is fed back into composing; an absent spectator costs
// nothing, but a slow one delays the Broadcast caller by up to writeWait
// per write.
package spectator

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
)

var writeWait = 5 * time.Second

// StepBroadcast is one composed authoritative step, as sent to spectators.
type StepBroadcast struct {
	StepId stepid.StepId `json:"stepId"`
	Body   []byte        `json:"body"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub tracks every connected spectator and fans out composed steps to
// them. The server calls Broadcast from its Update loop after composing
// steps; Broadcast returns once every spectator's write has completed,
// failed, or hit writeWait.
type Hub struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*subscriber]struct{}

	log *logrus.Entry
}

// Cfg configures a Hub.
type Cfg func(*Hub) error

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(log *logrus.Entry) Cfg {
	return func(h *Hub) error {
		h.log = log
		return nil
	}
}

// New creates a spectator Hub from cfgs.
func New(cfgs ...Cfg) (*Hub, error) {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
		log:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Handle upgrades an HTTP request to a websocket and registers it as a
// spectator. The connection is read-only from the spectator's side: any
// inbound frame is discarded, its only purpose being to detect closure.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("spectator upgrade failed")
		return
	}
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go h.drain(sub)
}

// drain blocks reading from the connection until it closes, then
// deregisters the subscriber. Spectators never send anything meaningful;
// this just detects disconnects without leaking goroutines per write.
func (h *Hub) drain(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.remove(sub)
			return
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.conn.Close()
}

// Broadcast sends a newly composed step to every connected spectator, one
// after another on the caller's goroutine, each write bounded by
// writeWait. A write failure disconnects that spectator and does not stop
// delivery to the others.
func (h *Hub) Broadcast(id stepid.StepId, body []byte) {
	data, err := json.Marshal(StepBroadcast{StepId: id, Body: body})
	if err != nil {
		h.log.WithError(err).Warn("marshal spectator broadcast failed")
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.remove(sub)
		}
	}
}

// Count returns the number of currently connected spectators.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
