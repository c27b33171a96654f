package web

import (
	"net/http"
	"sync/atomic"
	"time"

	"procalc/calc"

	"github.com/gorilla/websocket"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsWriteWait  = 10 * time.Second
	wsReadLimit  = 4 << 10
)

// WSMessage is an inbound websocket message.
type WSMessage struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Keys  string `json:"keys,omitempty"`
}

// WSReply is an outbound websocket message.
type WSReply struct {
	Type  string     `json:"type"`
	State *StateView `json:"state,omitempty"`
	Error string     `json:"error,omitempty"`
}

var wsClients atomic.Int64

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	id := wsClients.Add(1)
	log := s.logger.With("client", id)
	log.Info("websocket connected", "remote", r.RemoteAddr)

	sess := calc.NewSession(s.m)
	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(s.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket closed", "err", err)
			}
			break
		}
		conn.SetReadDeadline(time.Now().Add(s.pongWait))

		reply := s.handleMessage(sess, msg)
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("websocket write failed", "err", err)
			break
		}
	}
	log.Info("websocket disconnected", "actions", sess.Seq())
}

// pingLoop keeps an idle connection alive. WriteControl may run alongside the reply writer.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(sess *calc.Session, msg WSMessage) WSReply {
	switch msg.Type {
	case "ping":
		return WSReply{Type: "pong"}
	case "state":
		return stateReply(sess.Snapshot())
	case "clear":
		sess.Reset()
		return stateReply(sess.Snapshot())
	case "press", "keys":
		var req PressRequest
		if msg.Type == "press" {
			req.Label = msg.Label
		} else {
			req.Keys = msg.Keys
		}
		if req == (PressRequest{}) {
			return stateReply(sess.Snapshot())
		}
		actions, err := req.Actions()
		if err != nil {
			return WSReply{Type: "error", Error: err.Error()}
		}
		st := sess.DispatchAll(actions)
		s.logResult(actions, st)
		return stateReply(st)
	default:
		return WSReply{Type: "error", Error: "unknown message type " + msg.Type}
	}
}

func stateReply(st calc.State) WSReply {
	v := NewStateView(st)
	return WSReply{Type: "state", State: &v}
}
