// connection.go - WebSocket connection to the game server
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
)

var (
	// ErrClosed is returned when sending on a closed connection.
	ErrClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned when the write pump cannot keep up.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Sender delivers one outbound protocol message.
type Sender interface {
	Send(msg any) error
}

// Connection represents a WebSocket connection to the server
type Connection struct {
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger
}

// Dial opens the connection and starts its write pump.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Connection, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Connection{
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
	go c.writePump()
	return c, nil
}

// ReadLoop hands every inbound frame to deliver, in arrival order, until the
// connection fails or is closed. It never interprets the frames.
func (c *Connection) ReadLoop(deliver func([]byte)) error {
	defer c.Close()

	for {
		_, msgBytes, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return ErrClosed
			default:
			}
			return fmt.Errorf("read: %w", err)
		}
		deliver(msgBytes)
	}
}

// Send encodes msg as JSON and queues it for the write pump.
func (c *Connection) Send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		return ErrSendBufferFull
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.ws.Close()
	})
	return err
}

func (c *Connection) writePump() {
	for {
		select {
		case message := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
