package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024 // 64KB

	// Send buffer size per client.
	sendBufferSize = 16
)

const (
	subprotocolJSON = "bsviz.v1.json"
	subprotocolZstd = "bsviz.v1.json+zstd"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Browser front ends run on other origins
	Subprotocols:    []string{subprotocolZstd, subprotocolJSON},
}

// outbound pairs an encoded payload with its frame type.
type outbound struct {
	payload []byte
	binary  bool
}

// Client represents one scenario connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan outbound
	connID   string
	compress bool
	logger   *zap.Logger
}

// HandleScenarioWS upgrades the connection and starts the client pumps.
func (h *Hub) HandleScenarioWS(w http.ResponseWriter, r *http.Request) {
	// Negotiate subprotocol: compressed frames only if the client asked.
	compress := false
	var responseHeader http.Header
	for _, proto := range websocket.Subprotocols(r) {
		switch proto {
		case subprotocolZstd:
			compress = true
			responseHeader = http.Header{"Sec-WebSocket-Protocol": {proto}}
		case subprotocolJSON:
			responseHeader = http.Header{"Sec-WebSocket-Protocol": {proto}}
		}
		if responseHeader != nil {
			break
		}
	}

	conn, err := upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan outbound, sendBufferSize),
		connID:   uuid.New().String(),
		compress: compress,
		logger:   h.logger,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump reads scenario messages, prices them, and queues the results.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error",
					zap.String("connID", c.connID),
					zap.Error(err),
				)
			}
			break
		}
		c.handleMessage(message)
	}
}

// writePump writes queued messages and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, send close message
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			msgType := websocket.TextMessage
			if msg.binary {
				msgType = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(msgType, msg.payload); err != nil {
				c.logger.Debug("websocket write error",
					zap.String("connID", c.connID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage prices one scenario and queues the response. Invalid
// scenarios produce an error message, not a dropped connection: the user is
// mid-edit and the next keystroke may fix the input.
func (c *Client) handleMessage(data []byte) {
	req, err := parseScenario(data)
	if err != nil {
		c.queue(errorMessage(err))
		return
	}

	resp, err := evaluate(req, c.hub.maxSamples)
	if err != nil {
		c.queue(errorMessage(err))
		return
	}

	c.logger.Debug("scenario evaluated",
		zap.String("connID", c.connID),
		zap.Float64("spot", req.Spot),
		zap.Float64("strike", req.Strike),
	)
	c.queue(resp)
}

func (c *Client) queue(v any) {
	payload, compressed, err := c.hub.encoder.Encode(v, c.compress)
	if err != nil {
		c.logger.Warn("encoding message", zap.String("connID", c.connID), zap.Error(err))
		return
	}

	select {
	case c.send <- outbound{payload: payload, binary: compressed}:
	default:
		// Buffer full; the client is not keeping up with its own edits.
		c.logger.Debug("dropping message, send buffer full", zap.String("connID", c.connID))
	}
}
