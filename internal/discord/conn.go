package discord

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ========================= low-level =========================

// адрес gateway с версией API и кодировкой
func (gw *Gateway) wsURL() string {
	sep := "?"
	if strings.Contains(gw.url, "?") {
		sep = "&"
	}
	return gw.url + sep + "v=10&encoding=json"
}

// dial, ожидание HELLO, запуск heartbeat и IDENTIFY
func (gw *Gateway) dialAndSetup() (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(gw.wsURL(), nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(16 << 20)

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var p payload
	if err := conn.ReadJSON(&p); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read HELLO: %w", err)
	}
	if p.Op != opHello {
		_ = conn.Close()
		return nil, fmt.Errorf("expected HELLO, got op %d", p.Op)
	}
	var hello helloData
	if err := json.Unmarshal(p.D, &hello); err != nil || hello.HeartbeatInterval <= 0 {
		_ = conn.Close()
		return nil, fmt.Errorf("bad HELLO payload: %s", p.D)
	}
	// дальше живость соединения определяет heartbeat, а не дедлайн чтения
	_ = conn.SetReadDeadline(time.Time{})

	if err := gw.identify(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("identify: %w", err)
	}
	gw.startHeartbeat(conn, time.Duration(hello.HeartbeatInterval)*time.Millisecond)
	return conn, nil
}

// безопасно закрыть текущее соединение
func (gw *Gateway) closeConn() {
	gw.stopHeartbeat()
	gw.mu.Lock()
	conn := gw.conn
	gw.conn = nil
	gw.mu.Unlock()
	if conn != nil {
		gw.wmu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		gw.wmu.Unlock()
		_ = conn.Close()
	}
}

// startHeartbeat шлёт heartbeat раз в interval. Если на предыдущий не пришёл
// ACK — соединение считается подвисшим и закрывается, readLoop переподключится.
func (gw *Gateway) startHeartbeat(conn *websocket.Conn, interval time.Duration) {
	gw.stopHeartbeat()
	stop := make(chan struct{})
	gw.mu.Lock()
	gw.beatStop = stop
	gw.mu.Unlock()
	gw.acked.Store(true)

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				if !gw.acked.Swap(false) {
					gw.log.Warn("heartbeat not acknowledged, dropping connection")
					_ = conn.Close()
					return
				}
				if err := gw.sendHeartbeat(conn); err != nil {
					gw.reportError(fmt.Errorf("heartbeat: %w", err))
				}
			}
		}
	}()
}

func (gw *Gateway) stopHeartbeat() {
	gw.mu.Lock()
	stop := gw.beatStop
	gw.beatStop = nil
	gw.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}
