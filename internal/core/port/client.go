package port

import "github.com/polyroom/polyroom/internal/core/domain"

type Client interface {
	ID() domain.ConnID
	Send(ev domain.Event) error
	Close() error
}
