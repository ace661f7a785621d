package brokerfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// drain subscribe messages until the client hangs up
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestReconnectSwapsConnectionUnderReaders(t *testing.T) {
	srv := startFeedServer(t)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	c := New("key", wsURL, []string{"acc-1"}, 0, time.Second).(*Client)
	ctx := context.Background()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := c.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Status reads run while the connection is replaced, the way the ping
	// loop grabs the live conn between swaps.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			if err := c.Reconnect(ctx); err != nil {
				t.Errorf("reconnect: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = c.IsConnected()
			_ = c.current()
		}
	}()
	wg.Wait()

	if !c.IsConnected() {
		t.Fatal("client must be connected after reconnect")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.IsConnected() {
		t.Fatal("close must clear the connected flag")
	}
}

func TestCloseWithoutConnect(t *testing.T) {
	c := New("key", "ws://unused", nil, 0, time.Second).(*Client)
	if err := c.Close(); err != nil {
		t.Fatalf("close before connect: %v", err)
	}
	if c.IsConnected() {
		t.Fatal("never connected")
	}
	if err := c.Subscribe(context.Background()); err == nil {
		t.Fatal("subscribe must fail while disconnected")
	}
}
