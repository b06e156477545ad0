// Package chat is the websocket side of the chat widget. REST owns history
// (api.ChatHistory); this client only carries live traffic.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"worktrack-cli/internal/model"
)

// Outgoing is what the client sends; the server echoes it back as a full
// ChatMessage with authorship and timestamp filled in. The client-generated
// id lets the server deduplicate resends after a reconnect.
type Outgoing struct {
	ID        string `json:"id"`
	ChannelID string `json:"channelId"`
	Body      string `json:"body"`
}

type Client struct {
	baseURL string
	token   string
	channel string
	log     *zap.Logger

	// Incoming delivers messages in arrival order. Closed when Run returns.
	Incoming chan model.ChatMessage

	mu   sync.Mutex
	conn *websocket.Conn
}

// New prepares a chat client for one channel. Call Run to connect.
func New(baseURL, token, channel string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  baseURL,
		token:    token,
		channel:  channel,
		log:      log,
		Incoming: make(chan model.ChatMessage, 64),
	}
}

// wsURL converts the API base URL to the chat websocket endpoint.
func (c *Client) wsURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/chat/ws"
	q := u.Query()
	q.Set("channelId", c.channel)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Run connects and pumps incoming messages until ctx is cancelled,
// reconnecting with capped backoff on connection loss. It closes Incoming
// on return.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.Incoming)

	backoff := time.Second
	for {
		if err := c.connectAndRead(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn("chat connection lost; reconnecting",
				zap.String("channel", c.channel),
				zap.Duration("backoff", backoff),
				zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	target, err := c.wsURL()
	if err != nil {
		return err
	}
	hdr := http.Header{}
	if c.token != "" {
		hdr.Set("Authorization", "Bearer "+c.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, hdr)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	// Close the socket when ctx ends so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var msg model.ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}
		select {
		case c.Incoming <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Send posts one message body to the channel. Fails when not connected;
// callers surface that inline, the widget never crashes over it.
func (c *Client) Send(body string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	out := Outgoing{
		ID:        uuid.NewString(),
		ChannelID: c.channel,
		Body:      body,
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}

// ErrNotConnected is returned by Send before the first successful connect
// or while a reconnect is in progress.
var ErrNotConnected = &NotConnectedError{}

type NotConnectedError struct{}

func (*NotConnectedError) Error() string { return "chat: not connected" }
