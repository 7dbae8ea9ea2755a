package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const DefaultGatewayURL = "wss://gateway.discord.gg"

// Gateway — WebSocket-подключение к gateway Discord.
type Gateway struct {
	token   string
	url     string
	intents Intents
	log     *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed atomic.Bool

	wmu       sync.Mutex    // сериализует запись в websocket
	beatStop  chan struct{} // стоп-канал heartbeat-горутины
	seq       atomic.Int64  // последний s из dispatch, 0 — ещё не было
	acked     atomic.Bool   // пришёл ли ACK на последний heartbeat
	sessionID atomic.Value  // string

	// "События"
	OnConnected     func()
	OnReady         func(user User)
	OnMessageCreate func(*Message)
	OnDisconnected  func()
	OnError         func(error)
}

// NewGateway создаёт клиента. url == "" — DefaultGatewayURL.
func NewGateway(token, url string, intents Intents, logger *slog.Logger) *Gateway {
	if url == "" {
		url = DefaultGatewayURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		token:   token,
		url:     url,
		intents: intents,
		log:     logger,
	}
}

// Connect — устанавливает соединение (HELLO + IDENTIFY) и запускает readLoop.
// Отмена ctx закрывает соединение и останавливает переподключения.
func (gw *Gateway) Connect(ctx context.Context) error {
	conn, err := gw.dialAndSetup()
	if err != nil {
		return err
	}
	gw.setConn(conn)
	gw.closed.Store(false)

	if gw.OnConnected != nil {
		gw.OnConnected()
	}

	go gw.readLoop(ctx)
	return nil
}

func (gw *Gateway) Disconnect() {
	if gw.closed.Swap(true) {
		return
	}
	gw.closeConn()
}

func (gw *Gateway) IsConnected() bool {
	return gw.getConn() != nil && !gw.closed.Load()
}

// SessionID — id текущей сессии (после READY).
func (gw *Gateway) SessionID() string {
	s, _ := gw.sessionID.Load().(string)
	return s
}

func (gw *Gateway) getConn() *websocket.Conn {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	return gw.conn
}

func (gw *Gateway) setConn(c *websocket.Conn) {
	gw.mu.Lock()
	gw.conn = c
	gw.mu.Unlock()
}

// send — запись строго через один мьютекс + write-deadline.
func (gw *Gateway) send(conn *websocket.Conn, op int, d any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	gw.wmu.Lock()
	defer gw.wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(payload{Op: op, D: raw})
}

func (gw *Gateway) sendHeartbeat(conn *websocket.Conn) error {
	var d any // null до первого dispatch
	if s := gw.seq.Load(); s > 0 {
		d = s
	}
	return gw.send(conn, opHeartbeat, d)
}

func (gw *Gateway) identify(conn *websocket.Conn) error {
	return gw.send(conn, opIdentify, identifyData{
		Token:   gw.token,
		Intents: gw.intents,
		Properties: identifyProperties{
			OS:      "linux",
			Browser: "kstracker",
			Device:  "kstracker",
		},
	})
}

// handle разбирает одно входящее сообщение. Возвращает errReconnect, если
// сервер попросил переподключиться.
func (gw *Gateway) handle(conn *websocket.Conn, p *payload) error {
	switch p.Op {
	case opDispatch:
		if p.S != nil {
			gw.seq.Store(*p.S)
		}
		gw.dispatch(p.T, p.D)
	case opHeartbeat:
		return gw.sendHeartbeat(conn)
	case opHeartbeatACK:
		gw.acked.Store(true)
	case opReconnect:
		return errReconnect
	case opInvalidSession:
		gw.seq.Store(0)
		return errReconnect
	}
	return nil
}

var errReconnect = errors.New("gateway asked to reconnect")

func (gw *Gateway) dispatch(event string, d json.RawMessage) {
	switch event {
	case "READY":
		var r readyData
		if err := json.Unmarshal(d, &r); err != nil {
			gw.reportError(fmt.Errorf("decode READY: %w", err))
			return
		}
		gw.sessionID.Store(r.SessionID)
		gw.log.Info("gateway ready", "user", r.User.Username, "session", r.SessionID)
		if gw.OnReady != nil {
			gw.OnReady(r.User)
		}
	case "MESSAGE_CREATE":
		if gw.OnMessageCreate == nil {
			return
		}
		var m Message
		if err := json.Unmarshal(d, &m); err != nil {
			gw.reportError(fmt.Errorf("decode MESSAGE_CREATE: %w", err))
			return
		}
		gw.OnMessageCreate(&m)
	}
}

func (gw *Gateway) reportError(err error) {
	if gw.OnError != nil {
		gw.OnError(err)
		return
	}
	gw.log.Warn("gateway", "err", err)
}
