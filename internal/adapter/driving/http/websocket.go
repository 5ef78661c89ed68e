package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/polyroom/polyroom/internal/core/domain"
	"github.com/polyroom/polyroom/internal/core/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size: an SDP plus generous headroom for one
	// audio chunk.
	maxMessageSize = 512 * 1024

	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict to the frontend origin for production
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wireEvent is the outbound envelope: {"event": ..., "data": ...}.
type wireEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// inboundEnvelope is the matching inbound shape.
type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type signalIn struct {
	To        string          `json:"to"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

func (in signalIn) payload(kind domain.SignalKind) json.RawMessage {
	switch kind {
	case domain.SignalOffer:
		return in.Offer
	case domain.SignalAnswer:
		return in.Answer
	default:
		return in.Candidate
	}
}

type audioChunkIn struct {
	RoomID string `json:"roomId"`
	Chunk  []byte `json:"chunk"`
}

// WSClient is the websocket-backed port.Client. Outbound events go through a
// buffered channel drained by writePump, so hub callers never block on a
// slow peer; the channel preserves delivery order per connection.
type WSClient struct {
	id   domain.ConnID
	conn *websocket.Conn
	send chan domain.Event
	quit chan struct{}
}

func (c *WSClient) ID() domain.ConnID {
	return c.id
}

func (c *WSClient) Send(ev domain.Event) error {
	select {
	case c.send <- ev:
		return nil
	default:
		return fmt.Errorf("send queue full for %s", c.id)
	}
}

func (c *WSClient) Close() error {
	return c.conn.Close()
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(wireEvent{Event: ev.Name, Data: ev.Data}); err != nil {
				log.Error().Err(err).Str("conn_id", c.id.String()).Msg("Error writing event")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades the connection and runs its read loop until disconnect.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := &WSClient{
		id:   domain.NewConnID(),
		conn: conn,
		send: make(chan domain.Event, sendQueueSize),
		quit: make(chan struct{}),
	}

	l := log.With().Str("conn_id", client.id.String()).Logger()
	l.Info().Msg("New client connected")

	// Every connection gets its own session record and pipeline worker.
	session := domain.NewSessionState(h.Config.TranscriptionModel, h.Config.TranslationModel)
	worker := service.NewWorker(context.Background(), h.Pipeline, h.Config.ChunkQueueDepth)

	h.Hub.Register(client)
	go client.writePump()

	defer func() {
		l.Info().Msg("Client disconnected")
		// Cancel in-flight pipeline work before peers hear about the
		// departure, so nothing is broadcast on this speaker's behalf
		// after the notice.
		worker.Stop()
		h.Hub.Unregister(client.id)
		close(client.quit)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var env inboundEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}
		h.dispatch(client, &session, worker, env, l)
	}
}

// dispatch handles one inbound event on the connection's read loop. session
// is mutated only here, which keeps its ownership with this goroutine; the
// pipeline sees by-value snapshots.
func (h *Handler) dispatch(c *WSClient, session *domain.SessionState, worker *service.Worker, env inboundEnvelope, l zerolog.Logger) {
	switch env.Event {
	case "join-room":
		var roomID string
		if err := json.Unmarshal(env.Data, &roomID); err != nil {
			l.Error().Err(err).Msg("Malformed join-room payload")
			return
		}
		h.Hub.Join(c.id, domain.RoomID(roomID))

	case "offer", "answer", "ice-candidate":
		kind := domain.SignalKind(env.Event)
		var in signalIn
		if err := json.Unmarshal(env.Data, &in); err != nil {
			l.Error().Err(err).Str("kind", env.Event).Msg("Malformed signal payload")
			return
		}
		to, err := domain.ParseConnID(in.To)
		if err != nil {
			l.Warn().Str("to", in.To).Str("kind", env.Event).Msg("Signal addressed to malformed connection id, dropping")
			return
		}
		h.Hub.Relay(kind, c.id, to, in.payload(kind))

	case "set-language":
		var language string
		if err := json.Unmarshal(env.Data, &language); err != nil {
			l.Error().Err(err).Msg("Malformed set-language payload")
			return
		}
		session.TargetLanguage = language
		l.Info().Str("language", language).Msg("Client set language")

	case "set-transcription-model":
		var model string
		if err := json.Unmarshal(env.Data, &model); err != nil {
			l.Error().Err(err).Msg("Malformed set-transcription-model payload")
			return
		}
		session.TranscriptionModel = model
		l.Info().Str("model", model).Msg("Client set transcription model")

	case "set-translation-model":
		var model string
		if err := json.Unmarshal(env.Data, &model); err != nil {
			l.Error().Err(err).Msg("Malformed set-translation-model payload")
			return
		}
		session.TranslationModel = model
		l.Info().Str("model", model).Msg("Client set translation model")

	case "start-translation":
		var roomID string
		if err := json.Unmarshal(env.Data, &roomID); err != nil {
			l.Error().Err(err).Msg("Malformed start-translation payload")
			return
		}
		l.Info().Str("room_id", roomID).Msg("Translation started")

	case "audio-chunk":
		var in audioChunkIn
		if err := json.Unmarshal(env.Data, &in); err != nil {
			l.Error().Err(err).Msg("Malformed audio-chunk payload")
			return
		}
		chunk := domain.AudioChunk{
			ConnID: c.id,
			RoomID: domain.RoomID(in.RoomID),
			Data:   in.Chunk,
		}
		worker.Submit(chunk, *session)

	default:
		l.Warn().Str("event", env.Event).Msg("Unknown event")
	}
}
