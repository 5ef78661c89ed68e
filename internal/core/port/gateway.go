package port

import "github.com/polyroom/polyroom/internal/core/domain"

// RoomBroadcaster fans an event out to every member of a room. Membership is
// evaluated when the call is made, not when the triggering work started.
type RoomBroadcaster interface {
	Broadcast(roomID domain.RoomID, ev domain.Event)
}
