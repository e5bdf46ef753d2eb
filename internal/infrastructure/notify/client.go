package notify

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens before the upgrade; cross-origin pages cannot
		// attach a bearer token anyway
		return true
	},
}

// Client is one websocket subscriber of the hub
type Client struct {
	id       string
	tenantID uuid.UUID
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
}

// ServeClient upgrades the request and attaches a client to the hub.
// tenantID scopes which events the client receives; uuid.Nil receives
// all tenants.
func (h *Hub) ServeClient(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		id:       uuid.NewString(),
		tenantID: tenantID,
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, h.cfg.ClientBufferLen),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump discards inbound frames and detects disconnects. The hub is
// push-only; clients are not expected to send anything but pongs.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	readDeadline := 2 * c.hub.cfg.PingInterval
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("notify client read error",
					zap.String("client_id", c.id),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// writePump pushes queued events and periodic pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
