package service

import (
	"encoding/json"
	"sync"

	"github.com/polyroom/polyroom/internal/core/domain"
	"github.com/polyroom/polyroom/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Hub owns every connected client and the room membership maps, and relays
// negotiation messages between peers. All maps are guarded by mu so that
// membership changes are atomic with respect to concurrent joins, leaves and
// relays.
type Hub struct {
	mu      sync.Mutex
	clients map[domain.ConnID]port.Client
	rooms   map[domain.RoomID]map[domain.ConnID]port.Client
	member  map[domain.ConnID]domain.RoomID
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[domain.ConnID]port.Client),
		rooms:   make(map[domain.RoomID]map[domain.ConnID]port.Client),
		member:  make(map[domain.ConnID]domain.RoomID),
	}
}

// Register adds a freshly connected client. The client is in no room until
// it joins one.
func (h *Hub) Register(c port.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID()] = c
	log.Info().Str("conn_id", c.ID().String()).Msg("Client registered")
}

// Unregister removes a client entirely, leaving its room first so remaining
// peers get their departure notice.
func (h *Hub) Unregister(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(id)
	delete(h.clients, id)
	log.Info().Str("conn_id", id.String()).Msg("Client unregistered")
}

// Join puts the client into the named room, creating the room on first use,
// and tells the members already present about the newcomer. A client that is
// already in a different room is moved: it leaves the old room, with the
// usual departure notice, before joining the new one. Joining the room it is
// already in is a no-op.
func (h *Hub) Join(id domain.ConnID, roomID domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[id]
	if !ok {
		log.Warn().Str("conn_id", id.String()).Msg("Join from unknown client")
		return
	}

	if cur, ok := h.member[id]; ok {
		if cur == roomID {
			return
		}
		h.leaveLocked(id)
	}

	room := h.rooms[roomID]
	if room == nil {
		room = make(map[domain.ConnID]port.Client)
		h.rooms[roomID] = room
	}
	for _, peer := range room {
		h.send(peer, domain.NewUserConnectedEvent(id))
	}
	room[id] = c
	h.member[id] = roomID

	log.Info().
		Str("conn_id", id.String()).
		Str("room_id", roomID.String()).
		Int("count", len(room)).
		Msg("Client joined room")
}

// Leave removes the client from its room, if any. The last member out takes
// the room with it.
func (h *Hub) Leave(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(id)
}

func (h *Hub) leaveLocked(id domain.ConnID) {
	roomID, ok := h.member[id]
	if !ok {
		return
	}
	delete(h.member, id)

	room := h.rooms[roomID]
	delete(room, id)
	if len(room) == 0 {
		delete(h.rooms, roomID)
		log.Info().Str("room_id", roomID.String()).Msg("Room deleted")
		return
	}
	for _, peer := range room {
		h.send(peer, domain.NewUserDisconnectedEvent(id))
	}
	log.Info().
		Str("conn_id", id.String()).
		Str("room_id", roomID.String()).
		Int("count", len(room)).
		Msg("Client left room")
}

// Relay forwards a negotiation payload verbatim to the addressed peer,
// tagged with the sender. An unknown target is dropped without error:
// negotiation is best-effort and races with disconnects, so the sender's
// peer connection is left to time out on its own.
func (h *Hub) Relay(kind domain.SignalKind, from, to domain.ConnID, payload json.RawMessage) {
	h.mu.Lock()
	target, ok := h.clients[to]
	h.mu.Unlock()

	if !ok {
		log.Warn().
			Str("kind", string(kind)).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Relay target not connected, dropping")
		return
	}

	sig := domain.Signal{Kind: kind, From: from, Payload: payload}
	h.send(target, sig.Event())
}

// Broadcast sends ev to every current member of the room. Membership is read
// at call time, so a peer that left while a pipeline was still running never
// sees its output.
func (h *Hub) Broadcast(roomID domain.RoomID, ev domain.Event) {
	h.mu.Lock()
	members := make([]port.Client, 0, len(h.rooms[roomID]))
	for _, c := range h.rooms[roomID] {
		members = append(members, c)
	}
	h.mu.Unlock()

	for _, c := range members {
		h.send(c, ev)
	}
}

// Members lists the current members of a room.
func (h *Hub) Members(roomID domain.RoomID) []domain.ConnID {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.ConnID, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		out = append(out, id)
	}
	return out
}

func (h *Hub) send(c port.Client, ev domain.Event) {
	if err := c.Send(ev); err != nil {
		log.Error().
			Err(err).
			Str("conn_id", c.ID().String()).
			Str("event", ev.Name).
			Msg("Error sending event")
	}
}
