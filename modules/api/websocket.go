package api

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/example/chat-relay/modules/relay"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// wsConn adapts a websocket connection to relay.Conn. Outbound frames go
// through a bounded queue drained by writePump, so Send never blocks.
type wsConn struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	pumpDone  chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

var _ relay.Conn = (*wsConn)(nil)

func newWSConn(c *websocket.Conn, bufferSize int, maxMessageSize int64, logger *slog.Logger) *wsConn {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if maxMessageSize > 0 {
		c.SetReadLimit(maxMessageSize)
	}
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &wsConn{
		conn:     c,
		send:     make(chan []byte, bufferSize),
		done:     make(chan struct{}),
		pumpDone: make(chan struct{}),
		logger:   logger,
	}
}

// Send queues data for delivery.
func (w *wsConn) Send(data []byte) error {
	select {
	case <-w.done:
		return relay.ErrConnectionClosed
	default:
	}

	select {
	case w.send <- data:
		return nil
	case <-w.done:
		return relay.ErrConnectionClosed
	default:
		return relay.ErrSendQueueFull
	}
}

// ReadMessage returns the next data frame.
func (w *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			w.logger.Debug("websocket closed unexpectedly", "error", err)
		}
		return nil, err
	}
	return data, nil
}

// Close stops the write pump and closes the underlying connection.
func (w *wsConn) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.conn.Close()
	})
	return err
}

// writePump drains the send queue and keeps the connection alive with
// pings. It exits when the connection is closed or a write fails.
func (w *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(w.pumpDone)
	}()

	for {
		select {
		case data := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				w.logger.Debug("websocket write failed", "error", err)
				_ = w.Close()
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = w.Close()
				return
			}
		case <-w.done:
			return
		}
	}
}

// handleWebSocket serves one websocket connection until it ends.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	conn := newWSConn(c, m.cfg.SendBufferSize, m.cfg.MaxMessageSize, m.wsLogger)
	go conn.writePump()

	m.wsLogger.Debug("websocket connected", "remote", c.RemoteAddr().String())
	m.hub.Serve(m.ctx, conn)

	// The fiber conn is released when this handler returns.
	_ = conn.Close()
	<-conn.pumpDone
}
