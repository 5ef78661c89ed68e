package domain

import (
	"github.com/google/uuid"
)

// ConnID identifies one live transport connection (one participant).
type ConnID uuid.UUID

func NewConnID() ConnID {
	return ConnID(uuid.New())
}

func ParseConnID(s string) (ConnID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ConnID{}, err
	}
	return ConnID(id), nil
}

func (id ConnID) String() string {
	return uuid.UUID(id).String()
}

// RoomID names a call room. Room identifiers are chosen by clients when they
// join, so they stay plain strings.
type RoomID string

func (id RoomID) String() string {
	return string(id)
}
