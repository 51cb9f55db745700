package watch

import (
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Hub distributes events to the registered websocket connections.
type Hub struct {
	lock        sync.Mutex
	connections []*connection
}

var _ http.Handler = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{}
}

// Trigger sends an event to all matching connections.
// Connections failing to receive the event are closed.
func (h *Hub) Trigger(e Event) {
	h.lock.Lock()
	conns := slices.Clone(h.connections)
	h.lock.Unlock()

	log.Debug("trigger event {{event}} for {{amount}} connections", "event", e, "amount", len(conns))
	for _, c := range conns {
		if c.req.Matches(e.Kind) {
			c.HandleEvent(e)
		}
	}
}

// Len provides the number of registered connections.
func (h *Hub) Len() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.connections)
}

func (h *Hub) Close() error {
	h.lock.Lock()
	conns := slices.Clone(h.connections)
	h.lock.Unlock()

	for _, c := range conns {
		c.Close()
	}
	return nil
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Info("new watch request")
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		log.LogError(err, "upgrading watch request")
		return
	}

	msg, _, err := wsutil.ReadClientData(conn)
	if err != nil {
		log.LogError(err, "reading registration request")
		conn.Close()
		return
	}

	var req Request
	err = json.Unmarshal(msg, &req)
	if err != nil {
		log.LogError(err, "decoding registration request")
		wsutil.WriteServerMessage(conn, ws.OpText, (&Error{err.Error()}).Data())
		conn.Close()
		return
	}

	c := &connection{hub: h, conn: conn, req: req}
	h.add(c)
	go c.drain()
}

func (h *Hub) add(c *connection) {
	log.Info("registering watch connection for {{kinds}}", "kinds", c.req.Kinds)
	h.lock.Lock()
	defer h.lock.Unlock()
	h.connections = append(h.connections, c)
}

func (h *Hub) remove(c *connection) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.connections = slices.DeleteFunc(h.connections, func(e *connection) bool { return e == c })
}

////////////////////////////////////////////////////////////////////////////////

type connection struct {
	hub  *Hub
	lock sync.Mutex
	conn net.Conn
	req  Request
	once sync.Once
}

func (c *connection) HandleEvent(e Event) {
	data, _ := json.Marshal(e)
	c.lock.Lock()
	err := wsutil.WriteServerMessage(c.conn, ws.OpText, data)
	c.lock.Unlock()
	if err != nil {
		log.LogError(err, "cannot send event -> closing connection")
		c.Close()
	}
}

// drain consumes client frames to detect a closed connection.
func (c *connection) drain() {
	for {
		_, err := wsutil.ReadClientMessage(c.conn, nil)
		if err != nil {
			if !IsErrClosed(err) {
				log.Debug("watch connection failed", "error", err.Error())
			}
			c.Close()
			return
		}
	}
}

func (c *connection) Close() error {
	c.once.Do(func() {
		log.Info("closing watch connection for {{kinds}}", "kinds", c.req.Kinds)
		c.conn.Close()
		c.hub.remove(c)
	})
	return nil
}
