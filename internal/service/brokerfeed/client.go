package brokerfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"AtxEngine/internal/domain/models"
	drepo "AtxEngine/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a TradeStream backed by a broker WebSocket feed. The
// feed pushes closed-trade fills for the accounts it is subscribed to.
type Client struct {
	apiKey         string
	websocketURL   string
	accounts       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	mu        sync.Mutex // guards conn and connected
	conn      *websocket.Conn
	connected bool
}

// New creates a new broker-feed TradeStream.
func New(apiKey, websocketURL string, accounts []string, reconnectDelay, pingInterval time.Duration) drepo.TradeStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		accounts:       accounts,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("brokerfeed connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	log.Printf("brokerfeed: connected")
	return nil
}

// current returns the live connection, or nil.
func (c *Client) current() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	return c.conn
}

// Subscribe subscribes to configured accounts.
func (c *Client) Subscribe(ctx context.Context) error {
	conn := c.current()
	if conn == nil {
		return fmt.Errorf("brokerfeed not connected")
	}
	for _, a := range c.accounts {
		msg := map[string]string{"type": "subscribe", "account": a}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", a, err)
		}
		log.Printf("brokerfeed: subscribed %s", a)
	}
	return nil
}

type feedFill struct {
	Source     string   `json:"source"`
	TradeID    string   `json:"tradeId"`
	AccountID  string   `json:"accountId"`
	Instrument string   `json:"instrument"`
	Side       string   `json:"side"`
	Quantity   float64  `json:"quantity"`
	TS         int64    `json:"ts"` // ms
	Entry      float64  `json:"entryPrice"`
	Exit       float64  `json:"exitPrice"`
	StopLoss   *float64 `json:"stopLoss"`
	TakeProfit *float64 `json:"takeProfit"`
	OrderType  string   `json:"orderType"`
	ClosedTS   int64    `json:"closedTs"` // ms
}

type feedMessage struct {
	Type string     `json:"type"`
	Data []feedFill `json:"data"`
}

// Read streams closed trades and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	trades := make(chan *models.Trade, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if conn := c.current(); conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(trades)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				conn := c.current()
				if conn == nil {
					errs <- fmt.Errorf("brokerfeed conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("brokerfeed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-fill frames
					continue
				}
				if m.Type != "fill" {
					continue
				}
				for _, d := range m.Data {
					trade := &models.Trade{
						Source:     d.Source,
						TradeID:    d.TradeID,
						AccountID:  d.AccountID,
						Instrument: d.Instrument,
						Side:       models.Side(d.Side),
						Quantity:   d.Quantity,
						Timestamp:  time.UnixMilli(d.TS).UTC(),
						EntryPrice: d.Entry,
						ExitPrice:  d.Exit,
						StopLoss:   d.StopLoss,
						TakeProfit: d.TakeProfit,
						OrderType:  d.OrderType,
						ClosedAt:   time.UnixMilli(d.ClosedTS).UTC(),
					}
					select {
					case trades <- trade:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return trades, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.mu.Lock()
	c.connected = false
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
