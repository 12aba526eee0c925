package market

import (
	"context"
	"net/http"
	"sync"
	"time"

	"papertrade/internal/model"
	"papertrade/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// 行情推送：客户端订阅一组symbol，服务端按固定周期推送报价
// 报价经过网关缓存，推送频率不会放大对外部数据源的请求

// 客户端请求的消息格式
type ClientMessage struct {
	Action  string   `json:"action"`  // subscribe | unsubscribe
	Symbols []string `json:"symbols"` // ["RELIANCE", "TCS"]
}

type ClientConn struct {
	Conn    *websocket.Conn
	Send    chan []byte // 异步发送通道
	Symbols map[string]struct{}
}

type WSHandler struct {
	gateway QuotePusher
	mu      sync.RWMutex
	// 每个连接订阅的symbol集合
	clientSymbols map[*ClientConn]map[string]struct{}
	upgrader      websocket.Upgrader
	interval      time.Duration
}

// QuotePusher 推送循环需要的最小能力
type QuotePusher interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
}

func NewWSHandler(g QuotePusher) *WSHandler {
	return &WSHandler{
		gateway:       g,
		clientSymbols: make(map[*ClientConn]map[string]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // 允许跨域
		},
		interval: 30 * time.Second,
	}
}

// ServeWS 用来接收客户端的 WebSocket 连接
func (h *WSHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("ws upgrade error: %v", err)
		return
	}
	client := &ClientConn{
		Conn:    conn,
		Send:    make(chan []byte, 16),
		Symbols: make(map[string]struct{}),
	}
	h.mu.Lock()
	h.clientSymbols[client] = client.Symbols
	h.mu.Unlock()

	defer func() {
		h.removeClient(client)
		conn.Close()
	}()

	// 不断从 Send channel 取消息，写入 WebSocket
	go client.writePump()
	// 循环读取客户端发来的订阅消息，阻塞到连接断开
	client.readPump(h)
}

// removeClient 摘除连接并关闭发送通道，幂等
// close必须持有写锁：广播在读锁内发送，二者互斥后才不会
// 向已关闭的通道发送
func (h *WSHandler) removeClient(c *ClientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientSymbols[c]; !ok {
		return
	}
	delete(h.clientSymbols, c)
	close(c.Send)
}

// BroadcastQuotes 周期推送订阅symbol的报价，随服务启动运行
func (h *WSHandler) BroadcastQuotes() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for range ticker.C {
		h.broadcastOnce()
	}
}

func (h *WSHandler) broadcastOnce() {
	// 报价抓取走网关可能出网络，放在锁外
	h.mu.RLock()
	symbolSet := make(map[string]struct{})
	for _, symbolsMap := range h.clientSymbols {
		for s := range symbolsMap {
			symbolSet[s] = struct{}{}
		}
	}
	h.mu.RUnlock()
	if len(symbolSet) == 0 {
		return
	}

	quotes := make(map[string]model.Quote, len(symbolSet))
	for sym := range symbolSet {
		quote, err := h.gateway.Quote(context.Background(), sym)
		if err != nil && !quote.Stale {
			continue
		}
		quotes[sym] = quote
	}

	// 分发期间持有读锁，确保没有连接能在此期间被摘除
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client, symbolsMap := range h.clientSymbols {
		payload := make([]model.Quote, 0, len(symbolsMap))
		for s := range symbolsMap {
			if q, ok := quotes[s]; ok {
				payload = append(payload, q)
			}
		}
		if len(payload) == 0 {
			continue
		}
		data, _ := json.Marshal(payload)
		select {
		case client.Send <- data:
		default:
			// 发送通道已满，丢弃本轮，避免阻塞广播
		}
	}
}

func (c *ClientConn) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *ClientConn) readPump(h *WSHandler) {
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		h.mu.Lock()
		switch msg.Action {
		case "subscribe":
			for _, s := range msg.Symbols {
				c.Symbols[s] = struct{}{}
			}
		case "unsubscribe":
			for _, s := range msg.Symbols {
				delete(c.Symbols, s)
			}
		}
		h.mu.Unlock()
	}
}
