package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sociable/chathub/internal/stats"
	"github.com/sociable/chathub/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var errSendQueueFull = errors.New("send queue full")

type Client struct {
	conn     *websocket.Conn
	hub      *Hub
	log      *log.Logger
	user     types.User
	send     chan *ServerMessage
	stop     chan struct{}
	stopOnce sync.Once
	// cleanupOnce guarantees LeaveAll runs exactly once per connection,
	// even if the close races an in-flight frame.
	cleanupOnce sync.Once
	stats       stats.StatsProvider
}

func NewClient(user types.User, conn *websocket.Conn, h *Hub, l *log.Logger, sp stats.StatsProvider) *Client {
	return &Client{
		conn:  conn,
		hub:   h,
		log:   l,
		user:  user,
		send:  make(chan *ServerMessage, 256),
		stop:  make(chan struct{}),
		stats: sp,
	}
}

// Send implements Connection for the registry: a non-blocking enqueue on
// the client's send queue, so a slow peer can never stall a broadcast.
func (c *Client) Send(msg *ServerMessage) error {
	if !c.queueMessage(msg) {
		return errSendQueueFull
	}
	return nil
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Println("write exiting")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := json.Marshal(msg)
			if err != nil {
				c.log.Println("failed to serialize message:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Println("read exiting")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		// frames are handled sequentially on this goroutine, so a frame's
		// registry mutation can never interleave with the close cleanup
		c.hub.dispatcher.HandleFrame(c, raw)
	}
}

func (c *Client) queueMessage(msg *ServerMessage) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Println("failed to send message to client, channel is full")
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Client) cleanup() {
	c.cleanupOnce.Do(func() {
		c.hub.registry.LeaveAll(c)
		c.hub.DeregisterClient(c)
		c.stopClient()
	})
}
