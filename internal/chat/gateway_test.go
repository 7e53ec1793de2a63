package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func testConfig() *GatewayConfig {
	return &GatewayConfig{
		ReconnectDelay:    10 * time.Millisecond,
		MaxReconnectDelay: 50 * time.Millisecond,
		HandshakeTimeout:  time.Second,
		WriteTimeout:      time.Second,
	}
}

// serveSession sends hello, expects identify, then dispatches one message.
func serveSession(t *testing.T, c *websocket.Conn, content string) {
	t.Helper()
	if err := c.WriteJSON(map[string]any{"op": opHello, "d": map[string]any{"heartbeat_interval": 45000}}); err != nil {
		return
	}

	var id struct {
		Op int      `json:"op"`
		D  identify `json:"d"`
	}
	if err := c.ReadJSON(&id); err != nil {
		return
	}
	if id.Op != opIdentify {
		t.Errorf("expected identify, got op %d", id.Op)
	}
	if id.D.Token != "secret" {
		t.Errorf("identify token = %q", id.D.Token)
	}

	msg := map[string]any{
		"id":         "1",
		"channel_id": "chan",
		"content":    content,
		"author":     map[string]any{"id": "u1", "username": "op"},
	}
	c.WriteJSON(map[string]any{"op": opDispatch, "s": 1, "t": "GUILD_CREATE", "d": map[string]any{}})
	c.WriteJSON(map[string]any{"op": opDispatch, "s": 2, "t": "MESSAGE_CREATE", "d": msg})
}

func TestGateway_DispatchesMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()
		serveSession(t, c, "!help")
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	gw := NewGateway(wsURL, "secret", testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- gw.Run(ctx, func(_ context.Context, m Message) { got <- m })
	}()

	select {
	case m := <-got:
		if m.Content != "!help" || m.ChannelID != "chan" || m.Author.Username != "op" {
			t.Errorf("unexpected message: %+v", m)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for message")
	}

	if s := gw.seq.Load(); s != 2 {
		t.Errorf("seq = %d, want 2", s)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestGateway_ReconnectsOnRequest(t *testing.T) {
	var sessions atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		n := sessions.Add(1)
		if n == 1 {
			c.WriteJSON(map[string]any{"op": opHello, "d": map[string]any{"heartbeat_interval": 45000}})
			c.ReadMessage()
			c.WriteJSON(map[string]any{"op": opReconnect, "d": nil})
			c.ReadMessage()
			return
		}
		serveSession(t, c, "second")
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	gw := NewGateway(wsURL, "secret", testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan Message, 1)
	go gw.Run(ctx, func(_ context.Context, m Message) {
		select {
		case got <- m:
		default:
		}
	})

	select {
	case m := <-got:
		if m.Content != "second" {
			t.Errorf("content = %q", m.Content)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for reconnect")
	}
	if n := sessions.Load(); n < 2 {
		t.Errorf("sessions = %d, want >= 2", n)
	}
}

func TestGateway_AnswersHeartbeatRequest(t *testing.T) {
	beat := make(chan int, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		c.WriteJSON(map[string]any{"op": opHello, "d": map[string]any{"heartbeat_interval": 45000}})
		c.ReadMessage() // identify
		c.WriteJSON(map[string]any{"op": opDispatch, "s": 7, "t": "READY", "d": map[string]any{}})
		c.WriteJSON(map[string]any{"op": opHeartbeat, "d": nil})

		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				return
			}
			var f struct {
				Op int   `json:"op"`
				D  int64 `json:"d"`
			}
			if json.Unmarshal(data, &f) == nil && f.Op == opHeartbeat {
				select {
				case beat <- int(f.D):
				default:
				}
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	gw := NewGateway(wsURL, "secret", testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go gw.Run(ctx, func(context.Context, Message) {})

	select {
	case s := <-beat:
		if s != 7 {
			t.Errorf("heartbeat seq = %d, want 7", s)
		}
	case <-ctx.Done():
		t.Fatal("no heartbeat received")
	}
}

func TestGateway_DefaultConfig(t *testing.T) {
	gw := NewGateway("ws://localhost", "t", nil)
	if gw.config.ReconnectDelay != time.Second {
		t.Errorf("ReconnectDelay = %v", gw.config.ReconnectDelay)
	}
	if gw.config.MaxReconnectDelay != 60*time.Second {
		t.Errorf("MaxReconnectDelay = %v", gw.config.MaxReconnectDelay)
	}
}
