package socket

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"Bingo/pkg/log"

	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
)

const (
	heartbeatInterval = 25 * time.Second // ping 间隔
	heartbeatTimeout  = 60 * time.Second // 超过未收到 pong 视为断线
	writeWait         = 10 * time.Second
	sendBuffer        = 32
)

// Presence 在线状态记录，跨节点共享
type Presence interface {
	Bind(ctx context.Context, sid string, uid uint64) error
	UnBind(ctx context.Context, sid string, uid uint64) error
	Touch(ctx context.Context, uid uint64) error
}

// ClientResponse 推送给客户端的消息
type ClientResponse struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type Client struct {
	cid    int64
	uid    uint64
	conn   *websocket.Conn
	send   chan []byte
	closed atomic.Bool
	once   sync.Once
}

func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Write 非阻塞写入发送队列，队列满时丢弃
func (c *Client) Write(resp *ClientResponse) bool {
	if c.Closed() {
		return false
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return false
	}
	select {
	case c.send <- body:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		c.closed.Store(true)
		close(c.send)
	})
}

// Hub 当前节点的 websocket 连接
type Hub struct {
	sid      string
	presence Presence
	users    cmap.ConcurrentMap[string, *userClients]
	seq      atomic.Int64
}

type userClients struct {
	mu      sync.RWMutex
	clients map[int64]*Client
}

func NewHub(sid string, presence Presence) *Hub {
	return &Hub{
		sid:      sid,
		presence: presence,
		users:    cmap.New[*userClients](),
	}
}

// Serve 接管连接直到断开
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, uid uint64) {
	c := &Client{
		cid:  h.seq.Add(1),
		uid:  uid,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.add(c)
	if h.presence != nil {
		if err := h.presence.Bind(ctx, h.sid, uid); err != nil {
			log.L.Warn("socket bind presence", zap.Uint64("uid", uid), zap.Error(err))
		}
	}
	defer func() {
		h.remove(c)
		c.close()
		_ = conn.Close()
		if h.presence != nil {
			if err := h.presence.UnBind(context.WithoutCancel(ctx), h.sid, uid); err != nil {
				log.L.Warn("socket unbind presence", zap.Uint64("uid", uid), zap.Error(err))
			}
		}
	}()

	go h.writeLoop(c)
	h.readLoop(ctx, c)
}

// Push 推送给用户在本节点的全部连接，返回送达连接数
func (h *Hub) Push(uid uint64, resp *ClientResponse) int {
	uc, ok := h.users.Get(strconv.FormatUint(uid, 10))
	if !ok {
		return 0
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	n := 0
	for _, c := range uc.clients {
		if c.Write(resp) {
			n++
		}
	}
	return n
}

// Online 本节点在线连接数
func (h *Hub) Online(uid uint64) int {
	uc, ok := h.users.Get(strconv.FormatUint(uid, 10))
	if !ok {
		return 0
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.clients)
}

func (h *Hub) add(c *Client) {
	key := strconv.FormatUint(c.uid, 10)
	h.users.Upsert(key, nil, func(exist bool, old *userClients, _ *userClients) *userClients {
		if !exist {
			old = &userClients{clients: make(map[int64]*Client)}
		}
		old.mu.Lock()
		old.clients[c.cid] = c
		old.mu.Unlock()
		return old
	})
}

func (h *Hub) remove(c *Client) {
	key := strconv.FormatUint(c.uid, 10)
	h.users.RemoveCb(key, func(_ string, uc *userClients, exists bool) bool {
		if !exists {
			return false
		}
		uc.mu.Lock()
		defer uc.mu.Unlock()
		delete(uc.clients, c.cid)
		return len(uc.clients) == 0
	})
}

func (h *Hub) readLoop(ctx context.Context, c *Client) {
	_ = c.conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	c.conn.SetPongHandler(func(string) error {
		if h.presence != nil {
			_ = h.presence.Touch(ctx, c.uid)
		}
		return c.conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	})
	for {
		// 客户端上行消息只用于保活
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.L.Debug("socket read", zap.Uint64("uid", c.uid), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	}
}

func (h *Hub) writeLoop(c *Client) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case body, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}
