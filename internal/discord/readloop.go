package discord

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const maxBackoff = 30 * time.Second

func (gw *Gateway) readLoop(ctx context.Context) {
	defer func() {
		gw.closed.Store(true)
		gw.closeConn()
		if gw.OnDisconnected != nil {
			gw.OnDisconnected()
		}
	}()

	// закрыть по отмене контекста
	go func() {
		<-ctx.Done()
		gw.closed.Store(true)
		gw.closeConn()
	}()

	for {
		conn := gw.getConn()
		if conn != nil {
			var p payload
			err := conn.ReadJSON(&p)
			if err == nil {
				herr := gw.handle(conn, &p)
				if herr == nil {
					continue
				}
				if !errors.Is(herr, errReconnect) {
					gw.reportError(herr)
					continue
				}
				gw.log.Info("gateway requested reconnect", "op", p.Op)
			} else if !gw.closed.Load() {
				gw.reportError(err)
			}
		}
		if gw.closed.Load() {
			return
		}

		gw.closeConn()
		if !gw.reconnect(ctx) {
			return
		}
	}
}

// reconnect подключается заново с экспоненциальной задержкой.
// false — нас закрыли, пока ждали.
func (gw *Gateway) reconnect(ctx context.Context) bool {
	backoff := time.Second
	for !gw.closed.Load() {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
			conn, err := gw.dialAndSetup()
			if err != nil {
				gw.reportError(fmt.Errorf("reconnect failed (wait %v): %w", backoff, err))
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			gw.setConn(conn)
			if gw.OnConnected != nil {
				gw.OnConnected()
			}
			return true
		}
	}
	return false
}
