// Package chat runs the operator command channel: a gateway websocket for
// incoming messages and the REST API for replies.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/observability"
)

// Gateway opcodes.
const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatACK   = 11
)

// Intents requested on identify: guild messages and message content.
const defaultIntents = 1<<9 | 1<<15

// GatewayConfig configures gateway connection behavior.
type GatewayConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the doubling reconnect delay.
	MaxReconnectDelay time.Duration
	// HandshakeTimeout bounds the dial and the wait for Hello.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds every frame write.
	WriteTimeout time.Duration
}

// DefaultGatewayConfig returns the default gateway configuration.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 60 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Message is a chat message received from the gateway.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
	Author    struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Bot      bool   `json:"bot"`
	} `json:"author"`
}

type frame struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
	S  *int64          `json:"s,omitempty"`
	T  string          `json:"t,omitempty"`
}

type outFrame struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

type hello struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type identify struct {
	Token      string            `json:"token"`
	Intents    int               `json:"intents"`
	Properties map[string]string `json:"properties"`
}

// errReconnect asks the run loop to open a fresh session.
var errReconnect = errors.New("gateway requested reconnect")

// Gateway keeps a session open and hands MESSAGE_CREATE events to a handler.
type Gateway struct {
	endpoint string
	token    string
	config   GatewayConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	seq    atomic.Int64 // last dispatch sequence, 0 = none
}

// NewGateway creates a gateway client. Nothing is dialed until Run.
func NewGateway(endpoint, token string, config *GatewayConfig) *Gateway {
	cfg := DefaultGatewayConfig()
	if config != nil {
		cfg = *config
	}
	return &Gateway{endpoint: endpoint, token: token, config: cfg}
}

// Run holds a session open until ctx ends, reconnecting with a doubling delay.
func (g *Gateway) Run(ctx context.Context, handle func(context.Context, Message)) error {
	delay := g.config.ReconnectDelay
	for {
		start := time.Now()
		err := g.session(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// a session that lived a while resets the delay
		if time.Since(start) > g.config.MaxReconnectDelay {
			delay = g.config.ReconnectDelay
		}
		log.Warn().Str("component", "chat_gateway").Err(err).Dur("retry_in", delay).Msg("gateway session ended")
		observability.RecordChatReconnect()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > g.config.MaxReconnectDelay {
			delay = g.config.MaxReconnectDelay
		}
	}
}

// session runs one connection from dial to the first read error.
func (g *Gateway) session(ctx context.Context, handle func(context.Context, Message)) error {
	dialer := websocket.Dialer{HandshakeTimeout: g.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, g.endpoint, nil)
	if err != nil {
		return fmt.Errorf("gateway dial: %w", err)
	}

	g.connMu.Lock()
	g.conn = conn
	g.connMu.Unlock()
	g.seq.Store(0)

	sessionCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		g.connMu.Lock()
		g.conn.Close()
		g.conn = nil
		g.connMu.Unlock()
		wg.Wait()
	}()

	// close the socket on shutdown so the blocked read returns
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-sessionCtx.Done()
		g.connMu.Lock()
		if g.conn != nil {
			g.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(g.config.WriteTimeout))
			g.conn.Close()
		}
		g.connMu.Unlock()
	}()

	conn.SetReadDeadline(time.Now().Add(g.config.HandshakeTimeout))
	var first frame
	if err := conn.ReadJSON(&first); err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	if first.Op != opHello {
		return fmt.Errorf("expected hello, got op %d", first.Op)
	}
	var h hello
	if err := json.Unmarshal(first.D, &h); err != nil || h.HeartbeatInterval <= 0 {
		return fmt.Errorf("bad hello payload: %s", first.D)
	}
	interval := time.Duration(h.HeartbeatInterval) * time.Millisecond

	if err := g.write(outFrame{Op: opIdentify, D: identify{
		Token:   g.token,
		Intents: defaultIntents,
		Properties: map[string]string{
			"os": "linux", "browser": "injective-token-lab", "device": "injective-token-lab",
		},
	}}); err != nil {
		return fmt.Errorf("identify: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		g.heartbeatLoop(sessionCtx, interval)
	}()

	for {
		// a missed heartbeat ACK window plus slack ends the session
		conn.SetReadDeadline(time.Now().Add(2*interval + g.config.HandshakeTimeout))
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return fmt.Errorf("gateway read: %w", err)
		}
		if f.S != nil {
			g.seq.Store(*f.S)
		}

		switch f.Op {
		case opDispatch:
			if f.T != "MESSAGE_CREATE" {
				continue
			}
			var m Message
			if err := json.Unmarshal(f.D, &m); err != nil {
				log.Debug().Str("component", "chat_gateway").Err(err).Msg("undecodable message event")
				continue
			}
			handle(ctx, m)
		case opHeartbeat:
			if err := g.sendHeartbeat(); err != nil {
				return err
			}
		case opReconnect, opInvalidSession:
			return errReconnect
		case opHeartbeatACK:
		}
	}
}

func (g *Gateway) heartbeatLoop(ctx context.Context, interval time.Duration) {
	// first beat is jittered across the interval
	jitter := time.Duration(rand.Int63n(int64(interval)))
	timer := time.NewTimer(jitter)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := g.sendHeartbeat(); err != nil {
				log.Debug().Str("component", "chat_gateway").Err(err).Msg("heartbeat write failed")
				return
			}
			timer.Reset(interval)
		}
	}
}

func (g *Gateway) sendHeartbeat() error {
	var d any
	if s := g.seq.Load(); s > 0 {
		d = s
	}
	return g.write(outFrame{Op: opHeartbeat, D: d})
}

func (g *Gateway) write(v any) error {
	g.connMu.Lock()
	defer g.connMu.Unlock()
	if g.conn == nil {
		return fmt.Errorf("not connected")
	}
	g.conn.SetWriteDeadline(time.Now().Add(g.config.WriteTimeout))
	return g.conn.WriteJSON(v)
}
