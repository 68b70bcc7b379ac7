package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/boomsweeper/internal/mines"
	"github.com/vancomm/boomsweeper/internal/session"
)

const (
	wsOutbox    = 64
	wsReadLimit = 4096
)

type wsMessage struct {
	Type  string        `json:"type"`
	View  *session.View `json:"view,omitempty"`
	Clock *mines.Clock  `json:"clock,omitempty"`
	Error string        `json:"error,omitempty"`
}

// wsListener forwards session pushes to the connection writer. It is called
// under the session lock and must not block, so pushes that do not fit the
// outbox are dropped.
type wsListener struct {
	out chan<- wsMessage
}

func (l wsListener) OnTick(c mines.Clock) {
	select {
	case l.out <- wsMessage{Type: "tick", Clock: &c}:
	default:
	}
}

func (l wsListener) OnChange(v session.View) {
	select {
	case l.out <- wsMessage{Type: "view", View: &v}:
	default:
	}
}

func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	s, err := g.session(r)
	if err != nil {
		sendError(w, g.logger, err, "unable to fetch session")
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger := g.logger.With(slog.String("session", s.ID.String()))
	logger.Debug("established ws connection")

	out := make(chan wsMessage, wsOutbox)
	done := make(chan struct{})
	unsubscribe := s.Subscribe(wsListener{out})
	defer unsubscribe()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		g.wsWrite(conn, out, done, logger)
	}()
	defer func() {
		close(done)
		<-writerDone
	}()

	view := s.View()
	out <- wsMessage{Type: "view", View: &view}

	if err := g.wsRead(r, conn, s, out, writerDone); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			logger.Warn("abnormal ws break", slog.Any("error", err))
		}
	}
}

func (g GameHandler) wsRead(
	r *http.Request,
	conn *websocket.Conn,
	s *session.Session,
	out chan<- wsMessage,
	writerDone <-chan struct{},
) error {
	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(g.ws.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(g.ws.PongWait))
	})

	send := func(m wsMessage) bool {
		select {
		case out <- m:
			return true
		case <-writerDone:
			return false
		}
	}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}
		s.Touch()

		for line := range iterBySep(string(message), "\n") {
			g.logger.Debug("\t> " + line)
			action, ok, err := parseCommand(line)
			if err == nil && ok {
				_, err = s.Apply(r.Context(), action)
			}
			if err != nil {
				if !send(wsMessage{Type: "error", Error: err.Error()}) {
					return nil
				}
				continue
			}
			if !ok {
				view := s.View()
				if !send(wsMessage{Type: "view", View: &view}) {
					return nil
				}
			}
		}
	}
}

// wsWrite owns every write to conn.
func (g GameHandler) wsWrite(
	conn *websocket.Conn,
	out <-chan wsMessage,
	done <-chan struct{},
	logger *slog.Logger,
) {
	ping := time.NewTicker(g.ws.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case m := <-out:
			conn.SetWriteDeadline(time.Now().Add(g.ws.WriteWait))
			if err := conn.WriteJSON(m); err != nil {
				logger.Debug("unable to write json", slog.Any("error", err))
				conn.Close()
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(g.ws.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(g.ws.WriteWait))
			conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return
		}
	}
}
