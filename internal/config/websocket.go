package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader   websocket.Upgrader
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
}

func NewWebSocket() (*WebSocket, error) {
	pongWait, err := time.ParseDuration(getenv("WS_PONG_WAIT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_PONG_WAIT: %w", err)
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	ws := &WebSocket{
		Upgrader:   upgrader,
		WriteWait:  10 * time.Second,
		PongWait:   pongWait,
		PingPeriod: pongWait * 9 / 10,
	}

	return ws, nil
}
