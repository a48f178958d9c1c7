// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/applyo/applyo/engine"
	"github.com/applyo/applyo/models"
	"github.com/applyo/applyo/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the configured frontend origin in production
		return true
	},
}

// ClientMessage represents messages sent by live clients.
type ClientMessage struct {
	Action string `json:"action"`  // "join" or "leave"
	PollID string `json:"poll_id"` // poll to watch
}

// ServerMessage represents messages pushed to live clients.
type ServerMessage struct {
	Type    string      `json:"type"` // "joined", "left", "tally", "error"
	Payload interface{} `json:"payload"`
}

type LiveHandler struct {
	svc *engine.PollService
	hub *engine.BroadcastHub
}

func NewLiveHandler(svc *engine.PollService, hub *engine.BroadcastHub) *LiveHandler {
	return &LiveHandler{svc: svc, hub: hub}
}

// Live handles GET /api/polls/live. It upgrades the connection to a
// websocket and runs the per-connection state machine: unsubscribed
// until a "join", subscribed to exactly one poll at a time after it,
// back to unsubscribed on "leave" or disconnect.
//
// Protocol:
//
//	client: {"action": "join", "poll_id": "..."}
//	client: {"action": "leave"}
//	server: {"type": "joined", "payload": <tally snapshot>}
//	server: {"type": "tally", "payload": <tally snapshot>}
//	server: {"type": "error", "payload": {"message": "..."}}
//
// The server also sends websocket ping frames; a client that stops
// answering pongs times out after pongWait.
func (h *LiveHandler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket connection", "error", err)
		return
	}
	defer conn.Close()

	connID := session.NewToken()
	slog.Info("live client connected", "conn_id", connID, "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan ServerMessage, 16)
	var writers sync.WaitGroup

	writers.Add(1)
	go func() {
		defer writers.Done()
		writeMessages(conn, send)
	}()
	writers.Add(1)
	go func() {
		defer writers.Done()
		sendPings(ctx, conn)
	}()

	// Blocks until the connection drops or the client misbehaves.
	var forwarders sync.WaitGroup
	h.readClientMessages(conn, connID, send, &forwarders)

	// Teardown order matters: unsubscribing closes the update channel,
	// which lets the forwarder drain out before send is closed under it.
	cancel()
	h.hub.Unsubscribe(connID)
	forwarders.Wait()
	close(send)
	writers.Wait()

	slog.Info("live client disconnected", "conn_id", connID)
}

// readClientMessages runs the connection's read loop and join/leave
// state machine. updates holds the hub channel while subscribed; at
// most one forwarder goroutine is live at a time.
func (h *LiveHandler) readClientMessages(conn *websocket.Conn, connID string, send chan<- ServerMessage, forwarders *sync.WaitGroup) {
	var updates <-chan models.TallyUpdate

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		slog.Error("failed to set read deadline", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "conn_id", connID, "error", err)
			}
			return
		}
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			slog.Error("failed to reset read deadline", "error", err)
			return
		}

		switch msg.Action {
		case "join":
			if msg.PollID == "" {
				send <- errorMessage("poll_id is required")
				continue
			}
			poll, tally, err := h.svc.Get(msg.PollID)
			if err != nil {
				if errors.Is(err, engine.ErrPollNotFound) {
					send <- errorMessage("poll not found")
				} else {
					slog.Error("failed to load poll for live join", "error", err, "poll_id", msg.PollID)
					send <- errorMessage("failed to load poll")
				}
				continue
			}

			ch := h.hub.Subscribe(connID, msg.PollID)
			if updates == nil {
				updates = ch
				forwarders.Add(1)
				go func() {
					defer forwarders.Done()
					for u := range ch {
						send <- ServerMessage{Type: "tally", Payload: u}
					}
				}()
			}

			send <- ServerMessage{Type: "joined", Payload: models.TallyUpdate{
				PollID:     poll.ID,
				Results:    models.ResultsFor(poll.Options, tally),
				TotalVotes: tally.Total,
			}}

		case "leave":
			h.hub.Unsubscribe(connID)
			updates = nil
			send <- ServerMessage{Type: "left", Payload: map[string]string{"poll_id": msg.PollID}}

		default:
			send <- errorMessage("unknown action: " + msg.Action)
		}
	}
}

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: "error", Payload: map[string]string{"message": text}}
}

// writeMessages writes queued messages to the connection. After a write
// failure it keeps draining the channel so no sender ever blocks on a
// dead connection.
func writeMessages(conn *websocket.Conn, send <-chan ServerMessage) {
	for msg := range send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			for range send {
			}
			return
		}
	}
}

// sendPings keeps the connection alive; the peer's pongs reset the read
// deadline.
func sendPings(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
